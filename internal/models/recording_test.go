package models

import "testing"

func TestRecording_AverageScore(t *testing.T) {
	unrated := Recording{}
	if _, ok := unrated.AverageScore(); ok {
		t.Error("recording with zero ratings should have no average")
	}

	rated := Recording{
		Ratings: []*RecordingRating{
			{Score: 5},
			{Score: 4},
			{Score: 3},
		},
	}

	avg, ok := rated.AverageScore()
	if !ok {
		t.Fatal("rated recording should have an average")
	}
	if avg != 4.0 {
		t.Errorf("AverageScore() = %v, want 4.0", avg)
	}
}

func TestRatingCreateRequest_Validate(t *testing.T) {
	valid := RatingCreateRequest{RecordingID: 1, UserID: 2, Score: 4}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid rating failed validation: %v", err)
	}

	tooHigh := RatingCreateRequest{RecordingID: 1, UserID: 2, Score: 6}
	if err := tooHigh.Validate(); err == nil {
		t.Error("score above 5 should fail validation")
	}

	tooLow := RatingCreateRequest{RecordingID: 1, UserID: 2, Score: 0}
	if err := tooLow.Validate(); err == nil {
		t.Error("score below 1 should fail validation")
	}
}
