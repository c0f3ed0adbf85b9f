package models

import (
	"testing"
	"time"
)

func TestEventCreateRequest_Validate(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	end := start.Add(4 * time.Hour)

	tests := []struct {
		name    string
		req     EventCreateRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid event",
			req: EventCreateRequest{
				OrganizationID: 1,
				Title:          "Summer Showcase",
				StartDate:      start,
				EndDate:        end,
				Status:         StatusDraft,
			},
			wantErr: false,
		},
		{
			name: "missing organization",
			req: EventCreateRequest{
				Title:     "Summer Showcase",
				StartDate: start,
				EndDate:   end,
				Status:    StatusDraft,
			},
			wantErr: true,
			errMsg:  "organization id is required",
		},
		{
			name: "missing title",
			req: EventCreateRequest{
				OrganizationID: 1,
				StartDate:      start,
				EndDate:        end,
				Status:         StatusDraft,
			},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name: "start after end",
			req: EventCreateRequest{
				OrganizationID: 1,
				Title:          "Summer Showcase",
				StartDate:      end,
				EndDate:        start,
				Status:         StatusDraft,
			},
			wantErr: true,
			errMsg:  "start date must be before end date",
		},
		{
			name: "invalid status",
			req: EventCreateRequest{
				OrganizationID: 1,
				Title:          "Summer Showcase",
				StartDate:      start,
				EndDate:        end,
				Status:         EventStatus("live"),
			},
			wantErr: true,
			errMsg:  "invalid event status",
		},
		{
			name: "bad poster scheme",
			req: EventCreateRequest{
				OrganizationID: 1,
				Title:          "Summer Showcase",
				StartDate:      start,
				EndDate:        end,
				Status:         StatusDraft,
				PosterURL:      "ftp://example.com/poster.png",
			},
			wantErr: true,
			errMsg:  "poster URL must use HTTP or HTTPS protocol, or be a relative path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestEvent_UpcomingBoundary(t *testing.T) {
	now := time.Now()

	future := Event{StartDate: now.Add(1 * time.Hour), EndDate: now.Add(2 * time.Hour)}
	if !future.IsUpcoming(now) {
		t.Error("event starting in the future should be upcoming")
	}
	if future.IsPast(now) {
		t.Error("event starting in the future should not be past")
	}

	// An event starting exactly now counts as upcoming
	boundary := Event{StartDate: now, EndDate: now.Add(2 * time.Hour)}
	if !boundary.IsUpcoming(now) {
		t.Error("event starting exactly now should be upcoming")
	}
	if boundary.IsPast(now) {
		t.Error("event starting exactly now should not be past")
	}

	past := Event{StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-1 * time.Hour)}
	if past.IsUpcoming(now) {
		t.Error("event that already started should not be upcoming")
	}
	if !past.IsPast(now) {
		t.Error("event that already started should be past")
	}
}

func TestEvent_StatusHelpers(t *testing.T) {
	e := Event{Status: StatusPublished}
	if !e.IsPublished() || e.IsDraft() || e.IsCancelled() {
		t.Error("published event status helpers are inconsistent")
	}

	e.Status = StatusPendingReview
	if !e.IsPendingReview() {
		t.Error("pending review event should report as pending review")
	}
}
