// Package model provides data models for the WorkMood system.
package model

import (
	"fmt"
	"strings"
)

// Emotion is a categorical emotion label from the fixed recognizer vocabulary
type Emotion string

// The closed emotion category set. These values are used verbatim as keys in
// every engagement count and ratio structure.
const (
	EmotionAnger    Emotion = "anger"
	EmotionContempt Emotion = "contempt"
	EmotionDisgust  Emotion = "disgust"
	EmotionFear     Emotion = "fear"
	EmotionHappy    Emotion = "happy"
	EmotionNeutral  Emotion = "neutral"
	EmotionSad      Emotion = "sad"
	EmotionSurprise Emotion = "surprise"
)

// Emotions lists every category in a stable order
var Emotions = []Emotion{
	EmotionAnger,
	EmotionContempt,
	EmotionDisgust,
	EmotionFear,
	EmotionHappy,
	EmotionNeutral,
	EmotionSad,
	EmotionSurprise,
}

// ParseEmotion maps a case-insensitive category name to its Emotion value
func ParseEmotion(name string) (Emotion, error) {
	candidate := Emotion(strings.ToLower(strings.TrimSpace(name)))
	for _, emotion := range Emotions {
		if emotion == candidate {
			return emotion, nil
		}
	}
	return "", fmt.Errorf("unknown emotion category %q", name)
}
