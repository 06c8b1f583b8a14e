package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/comalice/presenterx"
)

var testID = uuid.MustParse("9b2f1c7e-3a55-4d8e-9c41-5f1e2d3c4b5a")

func transition(seq uint64, from, to string) presenterx.Transition {
	return presenterx.Transition{
		PresenterID: testID,
		Seq:         seq,
		ActionType:  "demo.Toggle",
		Action:      "{}",
		From:        "{On:false}",
		To:          "{On:true}",
		FromVariant: from,
		ToVariant:   to,
		Swapped:     from != to,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, int(seq), 0, time.UTC),
	}
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		PresenterID: testID.String(),
		Transitions: []presenterx.Transition{
			transition(1, "data", "data"),
			transition(2, "data", "error"),
			transition(3, "error", "data"),
		},
		SavedAt: time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC),
	}
}

func requireSameSnapshot(t *testing.T, want, got Snapshot) {
	t.Helper()
	require.Equal(t, want.PresenterID, got.PresenterID)
	require.True(t, want.SavedAt.Equal(got.SavedAt), "savedAt: got %v, want %v", got.SavedAt, want.SavedAt)
	require.Len(t, got.Transitions, len(want.Transitions))
	for i := range want.Transitions {
		w, g := want.Transitions[i], got.Transitions[i]
		require.True(t, w.Timestamp.Equal(g.Timestamp), "transition %d timestamp", i)
		w.Timestamp, g.Timestamp = time.Time{}, time.Time{}
		require.Equal(t, w, g, "transition %d", i)
	}
}

func TestRecorder_RingKeepsNewest(t *testing.T) {
	r := NewRecorder(3)
	for i := uint64(1); i <= 5; i++ {
		r.Observe(transition(i, "", ""))
	}

	got := r.Transitions()
	require.Len(t, got, 3)
	require.Equal(t, []uint64{3, 4, 5}, []uint64{got[0].Seq, got[1].Seq, got[2].Seq})
	require.Equal(t, uint64(2), r.Dropped())
}

func TestRecorder_SnapshotFiltersPresenter(t *testing.T) {
	r := NewRecorder(0)
	r.Observe(transition(1, "", ""))
	other := transition(1, "", "")
	other.PresenterID = uuid.New()
	r.Observe(other)
	r.Observe(transition(2, "", ""))

	snap := r.Snapshot(testID.String())
	require.Len(t, snap.Transitions, 2)
	require.False(t, snap.SavedAt.IsZero())
}

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan presenterx.Transition, 1)
	p := NewChannelPublisher(ch)

	p.Observe(transition(1, "", ""))
	select {
	case got := <-ch:
		require.Equal(t, uint64(1), got.Seq)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no transition delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan presenterx.Transition, 1)
	p := NewChannelPublisher(ch)

	p.Observe(transition(1, "", ""))
	p.Observe(transition(2, "", ""))
	require.Equal(t, uint64(1), p.Dropped())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	p.Observe(transition(3, "", ""))

	got, ok := <-ch
	require.True(t, ok)
	require.Equal(t, uint64(1), got.Seq)
	_, ok = <-ch
	require.False(t, ok)
}

func TestFilePersisters_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		open func(dir string) (Store, error)
	}{
		{"json", ".json", func(dir string) (Store, error) { return NewJSONPersister(dir) }},
		{"yaml", ".yaml", func(dir string) (Store, error) { return NewYAMLPersister(dir) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := filepath.Join(t.TempDir(), "nested")
			store, err := tc.open(dir)
			require.NoError(t, err)

			want := sampleSnapshot()
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, want))

			_, err = os.Stat(filepath.Join(dir, want.PresenterID+tc.ext))
			require.NoError(t, err)

			got, err := store.Load(ctx, want.PresenterID)
			require.NoError(t, err)
			requireSameSnapshot(t, want, got)
		})
	}
}

func TestFilePersisters_NotFound(t *testing.T) {
	dir := t.TempDir()
	jp, err := NewJSONPersister(dir)
	require.NoError(t, err)
	yp, err := NewYAMLPersister(dir)
	require.NoError(t, err)

	for _, store := range []Store{jp, yp} {
		_, err := store.Load(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
		require.True(t, errors.Is(err, os.ErrNotExist))
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx, want.PresenterID)
	require.NoError(t, err)
	requireSameSnapshot(t, want, got)

	// Saving again replaces rather than appends.
	want.Transitions = want.Transitions[:1]
	require.NoError(t, store.Save(ctx, want))
	got, err = store.Load(ctx, want.PresenterID)
	require.NoError(t, err)
	require.Len(t, got.Transitions, 1)

	ids, err := store.Presenters(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{want.PresenterID}, ids)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_RejectsInvalidID(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidID)

	bad := sampleSnapshot()
	bad.PresenterID = "not-a-uuid"
	require.ErrorIs(t, store.Save(ctx, bad), ErrInvalidID)

	ids, err := store.Presenters(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestGraph_ExportDOT(t *testing.T) {
	g := NewGraph()
	for _, tr := range sampleSnapshot().Transitions {
		g.Observe(tr)
	}

	edges := g.Edges()
	require.Len(t, edges, 2)
	require.Equal(t, Edge{From: "data", To: "error", Label: "demo.Toggle", Weight: 1}, edges[0])
	require.Equal(t, Edge{From: "error", To: "data", Label: "demo.Toggle", Weight: 1}, edges[1])

	dot := g.ExportDOT()
	require.True(t, strings.HasPrefix(dot, "digraph Presenter {"))
	require.Contains(t, dot, `"data" -> "error"`)
	require.Contains(t, dot, `"data" [label="data (3)" style="rounded,filled" fillcolor=orange];`)
}

func TestGraph_ExportDOTQuotesLabels(t *testing.T) {
	g := NewGraph()
	tr := transition(1, `a"b`, "c")
	tr.ActionType = `x"y`
	g.Observe(tr)

	dot := g.ExportDOT()
	require.Contains(t, dot, `"a\"b" [label="a\"b (1)"];`)
	require.Contains(t, dot, `"a\"b" -> "c" [label="x\"y x1"];`)
}

func TestGraph_SingleVariant(t *testing.T) {
	g := NewGraph()
	g.Observe(transition(1, "", ""))
	require.Empty(t, g.Edges())
	require.Contains(t, g.ExportDOT(), `"state"`)
}

func TestRecorder_ObservesPresenter(t *testing.T) {
	type inc struct{}
	rec := NewRecorder(16)

	reducer := presenterx.SingleReducer[int, struct{}, inc](
		func(_ context.Context, s int, _ inc, _ presenterx.Navigate[struct{}]) (presenterx.ReduceResult[int, inc], error) {
			return presenterx.Result[inc](s + 1), nil
		},
	)
	p, err := presenterx.NewSinglePresenter(context.Background(), presenterx.SingleConfig[int, struct{}, inc]{
		Initial: func() int { return 0 },
		Reducer: reducer,
	}, presenterx.WithSharing(presenterx.Eagerly), presenterx.WithObserver(rec))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Dispose() })

	p.EmitUserAction(inc{})
	p.EmitUserAction(inc{})

	require.Eventually(t, func() bool { return len(rec.Transitions()) == 2 }, time.Second, 5*time.Millisecond)
	got := rec.Snapshot(p.ID().String()).Transitions
	require.Equal(t, uint64(1), got[0].Seq)
	require.Equal(t, "1", got[0].To)
	require.Equal(t, "2", got[1].To)
}
