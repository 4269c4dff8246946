package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mic325hkg/CathayPriceChecker/internal/config"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "localhost:6379",
		ConnectTimeout: time.Second,
		RetryInterval:  10 * time.Millisecond,
		MaxWait:        100 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  3,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *ConnectOptions)
		wantErr bool
	}{
		{"valid", func(o *ConnectOptions) {}, false},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, true},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }, true},
		{"negative max wait", func(o *ConnectOptions) { o.MaxWait = -time.Second }, true},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }, true},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, true},
		{"zero warn threshold", func(o *ConnectOptions) { o.WarnThreshold = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	err := ConnectOptions{WarnThreshold: -1}.validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, field := range []string{"ConnectTimeout", "RetryInterval", "MaxWait", "PingTimeout", "WarnThreshold"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
}

func TestNewWithoutAddressIsDisabled(t *testing.T) {
	opts := validOptions()
	opts.Addr = "  "
	client, err := New(context.Background(), opts, logger.Nop())
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client")
	}
}

func TestNextWait(t *testing.T) {
	wait := 10 * time.Millisecond
	var got []time.Duration
	for i := 0; i < 5; i++ {
		wait = nextWait(wait, 100*time.Millisecond)
		got = append(got, wait)
	}
	want := []time.Duration{20, 40, 80, 100, 100}
	for i := range want {
		if got[i] != want[i]*time.Millisecond {
			t.Fatalf("nextWait sequence = %v", got)
		}
	}
}

// flakyPinger fails the first n pings.
type flakyPinger struct {
	fail  int
	calls int
}

func (p *flakyPinger) Ping(ctx context.Context) *redis.StatusCmd {
	p.calls++
	cmd := redis.NewStatusCmd(ctx, "ping")
	if p.calls <= p.fail {
		cmd.SetErr(errors.New("connection refused"))
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func TestWaitReadyRetriesUntilPing(t *testing.T) {
	p := &flakyPinger{fail: 2}
	if err := waitReady(context.Background(), p, validOptions(), logger.Nop()); err != nil {
		t.Fatalf("waitReady() error = %v", err)
	}
	if p.calls != 3 {
		t.Errorf("pings = %d, want 3", p.calls)
	}
}

func TestWaitReadyGivesUp(t *testing.T) {
	opts := validOptions()
	opts.ConnectTimeout = 50 * time.Millisecond
	p := &flakyPinger{fail: 1 << 30}

	err := waitReady(context.Background(), p, opts, logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("waitReady() error = %v, want the last ping error", err)
	}
}

func TestWaitReadyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &flakyPinger{fail: 1 << 30}

	if err := waitReady(ctx, p, validOptions(), logger.Nop()); err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if p.calls != 1 {
		t.Errorf("pings = %d, want 1", p.calls)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(&config.Config{RedisAddr: "cache:6379", RedisDB: 2, RedisWarnThreshold: 4})
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.WarnThreshold != 4 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
}
