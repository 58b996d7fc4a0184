package views

import (
	"strings"
	"testing"
)

func TestRenderShoppingPanelEmptyState(t *testing.T) {
	out := RenderShoppingPanel(ShoppingPanelData{EmptyText: "Your shopping list is empty"})
	if !strings.Contains(out, "Your shopping list is empty") {
		t.Fatalf("expected empty text, got %q", out)
	}

	loading := RenderShoppingPanel(ShoppingPanelData{Loading: true, EmptyText: "Your shopping list is empty"})
	if strings.Contains(loading, "empty") || !strings.Contains(loading, "loading") {
		t.Fatalf("loading panel should not show empty text, got %q", loading)
	}
}

func TestRenderShoppingPanelItemsAndConfirm(t *testing.T) {
	out := RenderShoppingPanel(ShoppingPanelData{
		Items: []ShoppingItemData{
			{Name: "milk", Selected: true},
			{Name: "eggs", Completed: true},
		},
		ConfirmName: "milk",
	})
	if !strings.Contains(out, ">  1. [ ] milk") {
		t.Fatalf("expected selected open milk row, got %q", out)
	}
	if !strings.Contains(out, "[x]") {
		t.Fatalf("expected completed marker, got %q", out)
	}
	if !strings.Contains(out, "delete milk?") {
		t.Fatalf("expected confirmation prompt, got %q", out)
	}
}

func TestRenderCountdownPanelHeadline(t *testing.T) {
	due := RenderCountdownPanel(CountdownPanelData{Seconds: 5})
	if !strings.Contains(due, "Thing due in") || !strings.Contains(due, "Seconds") {
		t.Fatalf("unexpected due panel: %q", due)
	}
	overdue := RenderCountdownPanel(CountdownPanelData{IsOverdue: true, Days: 1})
	if !strings.Contains(overdue, "Thing overdue by") {
		t.Fatalf("unexpected overdue panel: %q", overdue)
	}
	loading := RenderCountdownPanel(CountdownPanelData{Loading: true})
	if strings.Contains(loading, "Thing") {
		t.Fatalf("loading panel must not show a status, got %q", loading)
	}
}

func TestRenderHistoryPanelCount(t *testing.T) {
	if out := RenderHistoryPanel(HistoryPanelData{}); !strings.Contains(out, "nothing done yet") {
		t.Fatalf("unexpected empty history: %q", out)
	}
	if out := RenderHistoryPanel(HistoryPanelData{Count: 1}); !strings.Contains(out, "1 completion,") {
		t.Fatalf("unexpected singular history: %q", out)
	}
	out := RenderHistoryPanel(HistoryPanelData{Count: 2, LastSaved: "Mon Feb 9 2026 12:00:00"})
	if !strings.Contains(out, "last saved Mon Feb 9 2026 12:00:00") {
		t.Fatalf("expected last saved line:\n%s", out)
	}
	if strings.Contains(RenderHistoryPanel(HistoryPanelData{Count: 2}), "last saved") {
		t.Fatal("last saved line shown without a time")
	}
	if out := RenderHistoryPanel(HistoryPanelData{Count: 3}); !strings.Contains(out, "3 completions") {
		t.Fatalf("unexpected plural history: %q", out)
	}
}
