// Package utils exposes the token-protected helper endpoints used by
// operators and the recognition pipeline: credential digests and identifier
// encryption.
package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workmood/workmood-backend/util"
)

// Hash handles GET /utils/hash?content=
func Hash() fiber.Handler {
	return func(c *fiber.Ctx) error {
		content := c.Query("content")
		if content == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "content is required"})
		}
		return c.JSON(util.HashCredential(content))
	}
}

// Encrypt handles GET /utils/encrypt?content=
func Encrypt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		content := c.Query("content")
		if content == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "content is required"})
		}

		sealed, err := util.Encrypt(content)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "encryption failed"})
		}
		return c.JSON(sealed)
	}
}

// Decrypt handles GET /utils/decrypt?content=
func Decrypt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		content := c.Query("content")
		if content == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "content is required"})
		}

		plain, err := util.Decrypt(content)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "decryption failed"})
		}
		return c.JSON(plain)
	}
}
