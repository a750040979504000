package cache

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestParseAddrs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"localhost:11211", []string{"localhost:11211"}},
		{" a:1 , b:2 ,", []string{"a:1", "b:2"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := parseAddrs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseAddrs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewMemcachedCache_NoAddrs(t *testing.T) {
	if _, err := NewMemcachedCache(" , ", time.Second, 2); err == nil {
		t.Error("NewMemcachedCache() expected error for empty address list")
	}
}

func TestMemcachedCache_Key(t *testing.T) {
	c, err := NewMemcachedCache("localhost:11211", 0, 0)
	if err != nil {
		t.Fatalf("NewMemcachedCache() error = %v", err)
	}
	if got := c.key("new york"); got != "climate:observation:new_york" {
		t.Errorf("key() = %q, want climate:observation:new_york", got)
	}
}

func TestExpirationSeconds(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int32
	}{
		{5 * time.Minute, 300},
		{500 * time.Millisecond, 1},
		{0, 1},
		{60 * 24 * time.Hour, maxRelativeExp},
	}
	for _, tt := range tests {
		if got := expirationSeconds(tt.ttl); got != tt.want {
			t.Errorf("expirationSeconds(%v) = %d, want %d", tt.ttl, got, tt.want)
		}
	}
}

func TestMemcachedCache_CanceledContext(t *testing.T) {
	c, _ := NewMemcachedCache("localhost:11211", 10*time.Millisecond, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := c.Get(ctx, "pune"); err == nil {
		t.Error("Get() with canceled context expected error")
	}
	if err := c.Set(ctx, "pune", report("Pune", 28, 0), time.Minute); err == nil {
		t.Error("Set() with canceled context expected error")
	}
}
