package rdb

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"
)

func TestCached(t *testing.T) {

	valid := func() (int, error) { return 1, nil }
	failing := func() (int, error) { return 0, errors.New("upstream down") }

	// A closed client fails every GET and SET
	closedRdb, err := New(testCfg)
	if err != nil {
		log.Fatalf("failed to create Redis client; %v", err)
	}

	if err = closedRdb.Close(); err != nil {
		log.Fatalf("failed to close the Redis client; %v", err)
	}

	tests := []struct {
		name    string
		ctx     context.Context
		rdb     *Service
		fetch   func() (int, error)
		wantErr bool
	}{
		{"cancelled context", noCtx, testRdb, valid, false},
		{"closed client, failing fetch", baseCtx, closedRdb, failing, true},
		{"closed client, valid fetch", baseCtx, closedRdb, valid, false},
		{"failing fetch", baseCtx, testRdb, failing, true},
		{"valid fetch", baseCtx, testRdb, valid, false},
		{"nil service", baseCtx, nil, valid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "cached:" + tt.name
			t.Cleanup(func() { testRdb.Client.Del(baseCtx, key) })

			// The second round reads from the cache where possible
			for range 2 {
				got, err := Cached(tt.ctx, tt.rdb, key, time.Minute, tt.fetch)
				if gotErr := err != nil; gotErr != tt.wantErr {
					t.Fatalf("got error = %v, want error = %t", err, tt.wantErr)
				}

				if !tt.wantErr && got != 1 {
					t.Errorf("got %d, want 1", got)
				}
			}
		})
	}
}

func TestCachedCallsFetchOnce(t *testing.T) {

	calls := 0
	fetch := func() (string, error) {
		calls++
		return "summary", nil
	}

	key := "cached:fetch_once"
	t.Cleanup(func() { testRdb.Client.Del(baseCtx, key) })

	for range 3 {
		got, err := Cached(baseCtx, testRdb, key, time.Minute, fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != "summary" {
			t.Errorf("got %q, want %q", got, "summary")
		}
	}

	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestCachedSkipsFailures(t *testing.T) {

	key := "cached:no_failures"
	t.Cleanup(func() { testRdb.Client.Del(baseCtx, key) })

	_, err := Cached(baseCtx, testRdb, key, time.Minute, func() (string, error) {
		return "", errors.New("quota exceeded")
	})
	if err == nil {
		t.Fatal("got nil error, want an error")
	}

	if n := testRdb.Client.Exists(baseCtx, key).Val(); n != 0 {
		t.Errorf("got %d cached keys after a failure, want 0", n)
	}
}
