package model

import "testing"

func TestParseEmotion(t *testing.T) {
	for input, want := range map[string]Emotion{
		"happy":    EmotionHappy,
		"HAPPY":    EmotionHappy,
		" Sad ":    EmotionSad,
		"contempt": EmotionContempt,
	} {
		got, err := ParseEmotion(input)
		if err != nil {
			t.Errorf("ParseEmotion(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseEmotion(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseEmotionUnknown(t *testing.T) {
	if _, err := ParseEmotion("boredom"); err == nil {
		t.Fatal("expected an error for a category outside the vocabulary")
	}
}

func TestEmotionsCoverTheVocabulary(t *testing.T) {
	if len(Emotions) != 8 {
		t.Fatalf("vocabulary size = %d, want 8", len(Emotions))
	}
	seen := map[Emotion]bool{}
	for _, emotion := range Emotions {
		if seen[emotion] {
			t.Errorf("duplicate category %s", emotion)
		}
		seen[emotion] = true
	}
}
