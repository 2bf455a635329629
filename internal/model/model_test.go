// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
)

func TestNewConversationHasWelcome(t *testing.T) {
	c := New()

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	welcome := c.Messages[0]
	if welcome.Sender != SenderAgent || welcome.Content != WelcomeText {
		t.Errorf("welcome = %+v", welcome)
	}
	if c.Busy() {
		t.Error("new conversation must not be busy")
	}
}

func TestSubmitAppendsPairAndSetsBusy(t *testing.T) {
	c := New()

	user, pending, err := c.Submit("find thrillers")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (welcome + user + pending)", c.Len())
	}
	if user.Sender != SenderUser || user.Content != "find thrillers" {
		t.Errorf("user = %+v", user)
	}
	if !pending.Pending || pending.Sender != SenderAgent {
		t.Errorf("pending = %+v", pending)
	}
	if c.Messages[c.Len()-1].ID != pending.ID {
		t.Error("pending placeholder must be the last message")
	}
	if !c.Busy() || c.PendingID() != pending.ID {
		t.Error("conversation must be busy with the placeholder ID")
	}
}

func TestSubmitWhileBusyRejected(t *testing.T) {
	c := New()
	_, _, err := c.Submit("first")
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = c.Submit("second")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit error = %v, want ErrBusy", err)
	}
	if c.Len() != 3 {
		t.Errorf("rejected submit must not touch the transcript, Len = %d", c.Len())
	}
}

func TestResolveReplacesPlaceholder(t *testing.T) {
	c := New()
	_, pending, _ := c.Submit("space movies")

	movies := []api.Movie{{ID: "m1", Title: "Interstellar"}}
	terminal, err := c.Resolve(pending.ID, "Here you go.", movies, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if c.Busy() {
		t.Error("resolution must clear the busy flag")
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (welcome + user + terminal)", c.Len())
	}
	// No pending message survives anywhere in the transcript.
	for _, m := range c.Messages {
		if m.Pending {
			t.Errorf("pending message %s left in transcript", m.ID)
		}
	}
	last := c.Messages[c.Len()-1]
	if last.ID != terminal.ID || last.Content != "Here you go." {
		t.Errorf("last = %+v", last)
	}
	if len(last.Movies) != 1 || last.Movies[0].Title != "Interstellar" {
		t.Errorf("Movies = %+v", last.Movies)
	}
}

func TestResolvePreservesOrder(t *testing.T) {
	c := New()

	for i := 0; i < 3; i++ {
		content := fmt.Sprintf("question %d", i)
		_, pending, err := c.Submit(content)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Resolve(pending.ID, fmt.Sprintf("answer %d", i), nil, false); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{
		WelcomeText,
		"question 0", "answer 0",
		"question 1", "answer 1",
		"question 2", "answer 2",
	}
	if c.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", c.Len(), len(want))
	}
	for i, m := range c.Messages {
		if m.Content != want[i] {
			t.Errorf("message %d = %q, want %q", i, m.Content, want[i])
		}
	}
}

func TestResolveWrongIDRejected(t *testing.T) {
	c := New()
	_, pending, _ := c.Submit("q")

	if _, err := c.Resolve("bogus-id", "late answer", nil, false); !errors.Is(err, ErrNoPending) {
		t.Errorf("Resolve with wrong ID = %v, want ErrNoPending", err)
	}
	if !c.Busy() {
		t.Error("failed resolve must not clear busy state")
	}

	// The real resolution still works afterwards.
	if _, err := c.Resolve(pending.ID, "answer", nil, false); err != nil {
		t.Errorf("Resolve: %v", err)
	}

	// Double resolution is rejected.
	if _, err := c.Resolve(pending.ID, "again", nil, false); !errors.Is(err, ErrNoPending) {
		t.Errorf("double Resolve = %v, want ErrNoPending", err)
	}
}

func TestCancelDropsPlaceholder(t *testing.T) {
	c := New()
	_, _, _ = c.Submit("q")

	c.Cancel()

	if c.Busy() {
		t.Error("Cancel must clear busy state")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 (welcome + user)", c.Len())
	}
	// Cancel with nothing pending is a no-op.
	c.Cancel()
	if c.Len() != 2 {
		t.Error("idle Cancel must not change the transcript")
	}
}

func TestAtMostOnePendingEver(t *testing.T) {
	c := New()

	for i := 0; i < 5; i++ {
		_, pending, err := c.Submit("q")
		if err != nil {
			t.Fatal(err)
		}
		count := 0
		for _, m := range c.Messages {
			if m.Pending {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("round %d: %d pending messages, want 1", i, count)
		}
		c.Resolve(pending.ID, "a", nil, false)
	}
}

func TestTerminalExcludesPending(t *testing.T) {
	c := New()
	c.Submit("q")

	terminal := c.Terminal()
	if len(terminal) != 2 {
		t.Fatalf("Terminal len = %d, want 2", len(terminal))
	}
	for _, m := range terminal {
		if m.Pending {
			t.Error("Terminal must not include the placeholder")
		}
	}
}

func TestPrune(t *testing.T) {
	c := New()

	for i := 0; i < MaxMessages; i++ {
		_, pending, err := c.Submit("q")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Resolve(pending.ID, "a", nil, false); err != nil {
			t.Fatal(err)
		}
	}

	if c.Len() > MaxMessages {
		t.Errorf("Len = %d, want <= %d", c.Len(), MaxMessages)
	}
	// The newest exchange survives pruning.
	if last := c.Messages[c.Len()-1]; last.Content != "a" {
		t.Errorf("last = %q", last.Content)
	}
}

func TestLastAgentMessage(t *testing.T) {
	c := New()
	if got := c.LastAgentMessage(); got == nil || got.Content != WelcomeText {
		t.Errorf("LastAgentMessage on fresh conversation = %+v", got)
	}

	_, pending, _ := c.Submit("q")
	// The placeholder does not count.
	if got := c.LastAgentMessage(); got == nil || got.Content != WelcomeText {
		t.Errorf("LastAgentMessage while busy = %+v", got)
	}

	c.Resolve(pending.ID, "final", nil, false)
	if got := c.LastAgentMessage(); got == nil || got.Content != "final" {
		t.Errorf("LastAgentMessage = %+v", got)
	}
}

func TestMessagePreview(t *testing.T) {
	m := NewMessage(SenderUser, "line one is fairly long indeed\nline two")
	if got := m.Preview(12); got != "line one ..." {
		t.Errorf("Preview = %q", got)
	}
}
