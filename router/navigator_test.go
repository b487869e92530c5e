package router

import "testing"

func TestNavigatorDialAndSelect(t *testing.T) {
	var n Navigator
	n.Reset(3)

	n.Dial(-1)
	if n.Pending() != 2 || n.Current() != 0 || n.State() != Browsing {
		t.Fatalf("after dial: pending=%d current=%d state=%v", n.Pending(), n.Current(), n.State())
	}
	n.Dial(1)
	if n.State() != Committed {
		t.Errorf("dialing back to current should be committed, got %v", n.State())
	}

	n.Dial(2)
	if got := n.Select(); got != 2 || n.Current() != 2 || n.State() != Committed {
		t.Errorf("select = %d, current=%d state=%v", got, n.Current(), n.State())
	}
}

func TestNavigatorStepAndJump(t *testing.T) {
	var n Navigator
	n.Reset(3)
	n.Dial(1)

	if got := n.Step(-1); got != 2 || n.Pending() != 2 {
		t.Errorf("step back from 0 = %d pending=%d", got, n.Pending())
	}
	if got := n.Step(1); got != 0 {
		t.Errorf("step forward from 2 = %d", got)
	}
	if got := n.Jump(7); got != 1 || n.Pending() != 1 || n.State() != Committed {
		t.Errorf("jump 7 = %d pending=%d", got, n.Pending())
	}
}

func TestNavigatorEmpty(t *testing.T) {
	var n Navigator
	n.Reset(0)
	n.Dial(1)
	n.Step(-1)
	if n.Current() != 0 || n.Pending() != 0 || n.Len() != 0 {
		t.Errorf("empty navigator moved: current=%d pending=%d", n.Current(), n.Pending())
	}
	if Browsing.String() != "browsing" || Committed.String() != "committed" {
		t.Errorf("state names = %s %s", Browsing, Committed)
	}
}
