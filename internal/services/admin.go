package services

import (
	"context"
	"fmt"
	"time"

	"github.com/workmood/workmood-backend/database"
	"github.com/workmood/workmood-backend/model"
	"github.com/workmood/workmood-backend/util"
)

// AdminService owns the platform operator accounts
type AdminService struct {
	store database.Store
	now   func() time.Time
}

// NewAdminService wires the service against a store
func NewAdminService(store database.Store) *AdminService {
	return &AdminService{store: store, now: time.Now}
}

// Authenticate resolves an admin by its plaintext credential pair
func (s *AdminService) Authenticate(ctx context.Context, creds model.AuthAdmin) (model.Admin, error) {
	filter := database.Filter{
		"username": util.HashCredential(creds.Username),
		"password": util.HashCredential(creds.Password),
	}
	var admin model.Admin
	if err := s.store.FindOne(ctx, database.CollectionAdmins, filter, nil, &admin); err != nil {
		return model.Admin{}, fmt.Errorf("authenticating admin: %w", err)
	}
	return admin, nil
}

// Update replaces the admin document. Credential fields are restored from
// the stored admin unless rehash is set.
func (s *AdminService) Update(ctx context.Context, old model.Admin, next model.Admin, rehash bool) (model.Admin, error) {
	next.Key = old.Key

	if rehash {
		next.Username = util.HashCredential(next.Username)
		next.Password = util.HashCredential(next.Password)
		next.AuthKey = util.HashCredential(next.AuthKey)
	} else {
		next.Username = old.Username
		next.Password = old.Password
		next.AuthKey = old.AuthKey
	}

	var replaced model.Admin
	filter := database.Filter{"_key": old.Key}
	if err := s.store.ReplaceOne(ctx, database.CollectionAdmins, filter, next, &replaced); err != nil {
		return model.Admin{}, fmt.Errorf("replacing admin %s: %w", old.Key, err)
	}
	return replaced, nil
}

// RememberMe restores an admin session from its stored auth key digest
func (s *AdminService) RememberMe(ctx context.Context, rememberMe model.BasicRememberMe) (model.Admin, error) {
	var admin model.Admin
	filter := database.Filter{"authKey": rememberMe.AuthKey}
	if err := s.store.FindOne(ctx, database.CollectionAdmins, filter, nil, &admin); err != nil {
		return model.Admin{}, fmt.Errorf("restoring admin session: %w", err)
	}
	return admin, nil
}
