package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: time.Second})
	if Short() != time.Second {
		t.Errorf("Short() = %v, want %v", Short(), time.Second)
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want unchanged %v", Medium(), DefaultMedium)
	}

	Configure(Config{Short: -1})
	if Short() != time.Second {
		t.Errorf("Short() = %v, negative value should be ignored", Short())
	}

	Reset()
	if Current() != (Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium}) {
		t.Errorf("Current() after Reset = %+v", Current())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "users.find")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["operation"]; got != "users.find" {
		t.Errorf("operation = %v, want users.find", got)
	}
}

func TestWithTimeout_NoLogOnCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "users.find")
	cancel()
	if logs.Len() != 0 {
		t.Errorf("logged %d entries, want 0", logs.Len())
	}
}
