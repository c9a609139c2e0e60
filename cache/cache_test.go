package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t14raptor/deobfuscate/cache"
)

func TestGetReturnsSameBucketForSameFingerprint(t *testing.T) {
	c := cache.New()
	f := cache.Fingerprint64("var x = 1;")
	b1 := c.Get(f)
	b1.Set("k", 42)
	b2 := c.Get(f)
	v, ok := b2.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestGetInvalidatesOnFingerprintChange(t *testing.T) {
	c := cache.New()
	f1 := cache.Fingerprint64("var x = 1;")
	f2 := cache.Fingerprint64("var x = 2;")
	c.Get(f1).Set("k", "v")
	b2 := c.Get(f2)
	_, ok := b2.Get("k")
	assert.False(t, ok)
}

func TestNoHashSlotNeverInvalidated(t *testing.T) {
	c := cache.New()
	zero := cache.Fingerprint{}
	c.Get(zero).Set("k", "v")
	c.Get(cache.Fingerprint64("anything"))
	v, ok := c.Get(zero).Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestResetClearsActiveBucket(t *testing.T) {
	c := cache.New()
	f := cache.Fingerprint64("var x = 1;")
	c.Get(f).Set("k", "v")
	c.Reset()
	_, ok := c.Get(f).Get("k")
	assert.False(t, ok)
}
