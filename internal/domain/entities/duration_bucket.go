package entities

import "fmt"

// DurationBucket is the requested length range for generated clips
type DurationBucket string

const (
	Bucket15To30s   DurationBucket = "15-30s"
	Bucket30To60s   DurationBucket = "30-60s"
	Bucket60To90s   DurationBucket = "60-90s"
	Bucket90To120s  DurationBucket = "90-120s"
	Bucket120To180s DurationBucket = "120-180s"
)

var bucketBounds = map[DurationBucket][2]int{
	Bucket15To30s:   {15, 30},
	Bucket30To60s:   {30, 60},
	Bucket60To90s:   {60, 90},
	Bucket90To120s:  {90, 120},
	Bucket120To180s: {120, 180},
}

// DurationBuckets lists every accepted bucket in ascending order
func DurationBuckets() []DurationBucket {
	return []DurationBucket{Bucket15To30s, Bucket30To60s, Bucket60To90s, Bucket90To120s, Bucket120To180s}
}

// ParseDurationBucket rejects anything outside the closed set
func ParseDurationBucket(s string) (DurationBucket, error) {
	b := DurationBucket(s)
	if _, ok := bucketBounds[b]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDurationBucket, s)
	}
	return b, nil
}

// IsValid checks if the bucket is one of the known values
func (b DurationBucket) IsValid() bool {
	_, ok := bucketBounds[b]
	return ok
}

// Bounds returns the minimum and maximum clip length in seconds
func (b DurationBucket) Bounds() (lo, hi int) {
	r := bucketBounds[b]
	return r[0], r[1]
}

// Describe renders the bucket for use in a prompt, e.g. "30-60 seconds"
func (b DurationBucket) Describe() string {
	lo, hi := b.Bounds()
	return fmt.Sprintf("%d-%d seconds", lo, hi)
}
