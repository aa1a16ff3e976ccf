package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAdmissionCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		code := GenerateAdmissionCode()
		assert.Len(t, code, 36)
		assert.False(t, seen[code], "codes must not repeat")
		seen[code] = true
	}
}

func TestGenerateAdmissionCodeConcurrent(t *testing.T) {
	const n = 100
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = GenerateAdmissionCode()
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, code := range codes {
		assert.False(t, seen[code])
		seen[code] = true
	}
}
