package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"incidencia/internal/platform/store"
)

type fakeQ struct{ copied int64 }

func (f *fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (f *fakeQ) CopyFrom(_ context.Context, _ string, _ []string, rows [][]any) (int64, error) {
	f.copied += int64(len(rows))
	return int64(len(rows)), nil
}

type fakeTx struct {
	fakeQ
	calls int
}

func (f *fakeTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	f.calls++
	return fn(&f.fakeQ)
}

var (
	_ Queryer  = (*fakeQ)(nil)
	_ TxRunner = (*fakeTx)(nil)
)

func panicMessage(fn func()) (msg string) {
	defer func() {
		switch x := recover().(type) {
		case string:
			msg = x
		case error:
			msg = x.Error()
		}
	}()
	fn()
	return ""
}

type countRepo struct{ q Queryer }

func TestBinder(t *testing.T) {
	b := BindFunc[countRepo](func(q Queryer) countRepo { return countRepo{q: q} })

	q := &fakeQ{}
	if got := MustBind[countRepo](b, q); got.q != q {
		t.Fatal("MustBind did not pass the queryer through")
	}
	if msg := panicMessage(func() { _ = MustBind[countRepo](b, nil) }); msg != "repokit: nil Queryer" {
		t.Fatalf("panic = %q", msg)
	}
}

func TestWithTx(t *testing.T) {
	tx := &fakeTx{}
	err := WithTx(context.Background(), tx, func(q Queryer) error {
		_, err := q.CopyFrom(context.Background(), "incidents", []string{"zone"}, [][]any{{"Z1"}, {"Z2"}})
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if tx.calls != 1 || tx.copied != 2 {
		t.Fatalf("calls=%d copied=%d", tx.calls, tx.copied)
	}
}

type fakePinger struct {
	ctx context.Context
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.ctx = ctx
	return f.err
}

func TestMustPing(t *testing.T) {
	if msg := panicMessage(func() { MustPing(context.Background(), "pg", nil) }); msg != "pg: nil dependency" {
		t.Fatalf("nil panic = %q", msg)
	}

	fp := &fakePinger{}
	MustPing(context.Background(), "pg", fp)
	dl, ok := fp.ctx.Deadline()
	if !ok || time.Until(dl) > 5*time.Second || time.Until(dl) <= 0 {
		t.Fatalf("expected a default deadline within 5s, got %v ok=%v", dl, ok)
	}

	fp = &fakePinger{err: errors.New("boom")}
	if msg := panicMessage(func() { MustPing(context.Background(), "ch", fp) }); !strings.Contains(msg, "ch ping failed: boom") {
		t.Fatalf("error panic = %q", msg)
	}
}

type fakeGuard struct{ err error }

func (f fakeGuard) Guard(context.Context) error { return f.err }

func TestMustGuard(t *testing.T) {
	MustGuard(context.Background(), fakeGuard{})
	if msg := panicMessage(func() { MustGuard(context.Background(), fakeGuard{err: errors.New("pg down")}) }); !strings.Contains(msg, "dependency guard failed: pg down") {
		t.Fatalf("panic = %q", msg)
	}
}
