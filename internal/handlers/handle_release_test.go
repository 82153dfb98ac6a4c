package handlers

import (
	"testing"
)

func TestHandleRelease(t *testing.T) {
	h, g := setup(t)

	_, resp := post(t, h.HandleRelease, "/release/"+g.ID.String(), `{"clientId":"c1","targetId":"c2"}`)
	if !resp["ok"].(bool) {
		t.Fatalf("expected ok true")
	}
	if c := g.ClientView("c2").Color; c != nil {
		t.Fatalf("expected client to be removed")
	}
}

func TestHandleReleaseNotOwner(t *testing.T) {
	h, g := setup(t)

	_, resp := post(t, h.HandleRelease, "/release/"+g.ID.String(), `{"clientId":"notowner","targetId":"c2"}`)
	if resp["ok"].(bool) {
		t.Fatalf("expected ok false")
	}
	if c := g.ClientView("c2").Color; c == nil {
		t.Fatalf("client should still be present")
	}
}
