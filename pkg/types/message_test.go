package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestNewMessage(t *testing.T) {
	m1 := NewMessage()
	m2 := NewMessage()

	if m1.ID() == "" {
		t.Error("ID() is empty")
	}
	if m1.ID() == m2.ID() {
		t.Errorf("IDs should differ, both %q", m1.ID())
	}
	if time.Since(m1.Created()) > time.Second {
		t.Error("Created() is too old")
	}
}

func TestMessage_Setters(t *testing.T) {
	mock := clock.NewMock()
	m := NewMessageWithClock(mock).
		SetAction("say").
		SetActor("alice").
		SetTarget("room-1").
		SetContent([]any{"room-1", "hi"})

	if m.Created() != mock.Now() {
		t.Errorf("Created() = %v, want %v", m.Created(), mock.Now())
	}
	if m.Action() != "say" {
		t.Errorf("Action() = %q", m.Action())
	}
	if m.Actor() != "alice" {
		t.Errorf("Actor() = %q", m.Actor())
	}
	if m.Target() != "room-1" {
		t.Errorf("Target() = %q", m.Target())
	}
	if len(m.Content()) != 2 {
		t.Errorf("Content() len = %d, want 2", len(m.Content()))
	}
}

func TestMessage_Ack(t *testing.T) {
	m := NewMessage().SetContent([]any{"hi"})
	if _, ok := m.Ack(); ok {
		t.Error("Ack() should be absent")
	}

	var got []any
	var ack Ack = func(args ...any) { got = args }
	m.SetContent([]any{"hi", ack})

	fn, ok := m.Ack()
	if !ok {
		t.Fatal("Ack() should be present")
	}
	fn("ok")
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("ack args = %v", got)
	}

	params := m.Params()
	if len(params) != 1 || params[0] != "hi" {
		t.Errorf("Params() = %v", params)
	}
	if len(m.Content()) != 2 {
		t.Errorf("Content() should keep the ack, len = %d", len(m.Content()))
	}
}

func TestMessage_MarshalJSON(t *testing.T) {
	var ack Ack = func(...any) {}
	m := NewMessage().SetAction("say").SetActor("a").SetTarget("b").SetContent([]any{"x", ack})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out["id"] != m.ID() || out["action"] != "say" || out["actor"] != "a" || out["target"] != "b" {
		t.Errorf("unexpected fields: %s", data)
	}
	content, ok := out["content"].([]any)
	if !ok || len(content) != 1 || content[0] != "x" {
		t.Errorf("content = %v, want [x]", out["content"])
	}

	empty, err := json.Marshal(NewMessage())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := json.Unmarshal(empty, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c, ok := out["content"].([]any); !ok || len(c) != 0 {
		t.Errorf("empty content = %v, want []", out["content"])
	}
}
