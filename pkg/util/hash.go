package util

import "hash/fnv"

// Bucket maps key onto one of n buckets using FNV-1a. n must be positive.
func Bucket(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
