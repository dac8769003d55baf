package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"commsafe/internal/domain"
	"commsafe/internal/taxonomy"

	"github.com/rs/zerolog"
)

func newVoteService(store *fakeVoteStore, notifier *fakeNotifier) *VoteService {
	return NewVoteService(store, taxonomy.Default(), notifier, zerolog.Nop())
}

func TestSubmitVote(t *testing.T) {
	store := &fakeVoteStore{}
	notifier := newFakeNotifier()
	svc := newVoteService(store, notifier)

	vote, err := svc.Submit(context.Background(), SubmitVoteInput{
		ReporterID: "reporter-1",
		TargetID:   "target-1",
		MatchID:    "match-1",
		Tag:        "Team Player",
		Comment:    "great calls",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if vote.ID == "" {
		t.Error("vote ID not assigned")
	}
	if vote.CreatedAt.IsZero() {
		t.Error("vote CreatedAt not set")
	}
	if len(store.votes) != 1 {
		t.Fatalf("store has %d votes, want 1", len(store.votes))
	}
	if !notifier.wait(time.Second) {
		t.Error("notifier was not invoked")
	}
}

func TestSubmitVoteValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      SubmitVoteInput
		wantMsg string
	}{
		{
			name:    "missing reporter",
			in:      SubmitVoteInput{TargetID: "t", Tag: "Toxic"},
			wantMsg: "required",
		},
		{
			name:    "missing target",
			in:      SubmitVoteInput{ReporterID: "r", Tag: "Toxic"},
			wantMsg: "required",
		},
		{
			name:    "missing tag",
			in:      SubmitVoteInput{ReporterID: "r", TargetID: "t"},
			wantMsg: "required",
		},
		{
			name:    "self vote",
			in:      SubmitVoteInput{ReporterID: "same", TargetID: "same", Tag: "Toxic"},
			wantMsg: "different players",
		},
		{
			name:    "unknown tag",
			in:      SubmitVoteInput{ReporterID: "r", TargetID: "t", Tag: "Legend"},
			wantMsg: "invalid tag",
		},
		{
			name: "comment too long",
			in: SubmitVoteInput{
				ReporterID: "r", TargetID: "t", Tag: "Toxic",
				Comment: strings.Repeat("x", 501),
			},
			wantMsg: "500 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeVoteStore{}
			svc := newVoteService(store, newFakeNotifier())

			_, err := svc.Submit(context.Background(), tt.in)
			if !domain.IsValidation(err) {
				t.Fatalf("error = %v, want validation error", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if len(store.votes) != 0 {
				t.Error("invalid vote was persisted")
			}
		})
	}
}

func TestSubmitVoteDuplicate(t *testing.T) {
	store := &fakeVoteStore{}
	svc := newVoteService(store, newFakeNotifier())

	in := SubmitVoteInput{ReporterID: "r", TargetID: "t", MatchID: "m1", Tag: "Skilled"}
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := svc.Submit(context.Background(), in); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("second submit error = %v, want ErrDuplicate", err)
	}
	if len(store.votes) != 1 {
		t.Errorf("store has %d votes, want 1", len(store.votes))
	}

	// Same pair in a different match is a distinct vote.
	in.MatchID = "m2"
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("different match submit failed: %v", err)
	}
	if len(store.votes) != 2 {
		t.Errorf("store has %d votes, want 2", len(store.votes))
	}
}

func TestDeleteVote(t *testing.T) {
	store := &fakeVoteStore{}
	svc := newVoteService(store, newFakeNotifier())

	vote, err := svc.Submit(context.Background(), SubmitVoteInput{
		ReporterID: "r", TargetID: "t", MatchID: "m", Tag: "Toxic",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Delete(context.Background(), vote.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(store.votes) != 0 {
		t.Error("vote not removed from store")
	}
	if err := svc.Delete(context.Background(), vote.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), ""); !domain.IsValidation(err) {
		t.Errorf("empty id delete error = %v, want validation error", err)
	}
}
