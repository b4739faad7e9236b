package session

import "testing"

func TestAddAndSelect(t *testing.T) {
	st := NewStore()

	a := New("https://a.example/", false)
	b := New("https://b.example/", false)

	st.Add(a, true)
	st.Add(b, false)

	snap := st.Snapshot()
	if len(snap.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(snap.Sessions))
	}
	if snap.SelectedID != a.ID {
		t.Errorf("expected %s selected, got %s", a.ID, snap.SelectedID)
	}

	if !st.Select(b.ID) {
		t.Fatal("select of a present id failed")
	}
	if st.Select("tab-nope") {
		t.Error("select of an absent id should return false")
	}
	if got := st.Snapshot().SelectedID; got != b.ID {
		t.Errorf("expected %s selected, got %s", b.ID, got)
	}
}

func TestFirstAddIsSelectedEvenWithoutSelectFlag(t *testing.T) {
	st := NewStore()
	a := New("https://a.example/", false)
	st.Add(a, false)

	if got := st.Snapshot().SelectedID; got != a.ID {
		t.Errorf("expected first session to become selected, got %q", got)
	}
}

func TestRemoveFallbackSelection(t *testing.T) {
	st := NewStore()

	n1 := New("https://n1.example/", false)
	p1 := New("https://p1.example/", true)
	n2 := New("https://n2.example/", false)

	st.Add(n1, true)
	st.Add(p1, false)
	st.Add(n2, false)

	// Removing the selected normal session falls back to the nearest
	// normal one, skipping the private neighbor.
	if !st.Remove(n1.ID) {
		t.Fatal("remove of present id failed")
	}
	if got := st.Snapshot().SelectedID; got != n2.ID {
		t.Errorf("expected fallback to %s, got %s", n2.ID, got)
	}

	// With no normal sessions left, fall back to any kind.
	st.Remove(n2.ID)
	if got := st.Snapshot().SelectedID; got != p1.ID {
		t.Errorf("expected fallback to %s, got %s", p1.ID, got)
	}

	st.Remove(p1.ID)
	if got := st.Snapshot().SelectedID; got != "" {
		t.Errorf("expected no selection in an empty store, got %s", got)
	}

	if st.Remove(p1.ID) {
		t.Error("removing an absent id should return false")
	}
}

func TestRemoveBatch(t *testing.T) {
	st := NewStore()

	a := New("https://a.example/", false)
	b := New("https://b.example/", true)
	c := New("https://c.example/", false)

	st.Add(a, true)
	st.Add(b, false)
	st.Add(c, false)

	st.RemoveBatch([]string{a.ID, c.ID, "tab-unknown"})

	snap := st.Snapshot()
	if len(snap.Sessions) != 1 || snap.Sessions[0].ID != b.ID {
		t.Fatalf("expected only %s to remain, got %+v", b.ID, snap.Sessions)
	}
	if snap.SelectedID != b.ID {
		t.Errorf("expected selection to fall back to %s, got %s", b.ID, snap.SelectedID)
	}
}

func TestObserverNotifications(t *testing.T) {
	st := NewStore()

	var snaps []Snapshot
	unsubscribe := st.Subscribe(func(snap Snapshot) {
		snaps = append(snaps, snap)
	})

	a := New("https://a.example/", false)
	st.Add(a, true)
	st.UpdateURL(a.ID, "https://a.example/next")

	if len(snaps) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(snaps))
	}
	if got, _ := snaps[1].Find(a.ID); got.URL != "https://a.example/next" {
		t.Errorf("notification carries stale URL: %s", got.URL)
	}

	unsubscribe()
	unsubscribe() // no-op
	st.Remove(a.ID)

	if len(snaps) != 2 {
		t.Errorf("expected no notifications after unsubscribe, got %d", len(snaps))
	}
}

func TestUnsubscribeFromInsideNotification(t *testing.T) {
	st := NewStore()

	calls := 0
	var unsubscribe func()
	unsubscribe = st.Subscribe(func(Snapshot) {
		calls++
		unsubscribe()
	})

	st.Add(New("https://a.example/", false), true)
	st.Add(New("https://b.example/", false), true)

	if calls != 1 {
		t.Errorf("expected exactly one delivery, got %d", calls)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	st := NewStore()
	a := New("https://a.example/", false)
	st.Add(a, true)

	snap := st.Snapshot()
	snap.Sessions[0].URL = "https://mutated.example/"

	if got, _ := st.Snapshot().Find(a.ID); got.URL != "https://a.example/" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestUpdateFlags(t *testing.T) {
	st := NewStore()
	a := New("https://a.example/", false)
	st.Add(a, true)

	if !st.SetFullscreen(a.ID, true) {
		t.Fatal("SetFullscreen on a present id failed")
	}
	if !st.SetPictureInPicture(a.ID, true) {
		t.Fatal("SetPictureInPicture on a present id failed")
	}
	if st.SetFullscreen("tab-unknown", true) {
		t.Error("SetFullscreen on an absent id should return false")
	}

	got, _ := st.Snapshot().Find(a.ID)
	if !got.Fullscreen || !got.PictureInPicture {
		t.Errorf("flags not applied: %+v", got)
	}
}
