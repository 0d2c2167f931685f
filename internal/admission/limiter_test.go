package admission_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lewis.chat/gateway/core/config"
	"lewis.chat/gateway/internal/admission"
)

var _ = Describe("Limiter", func() {
	var (
		now     time.Time
		limiter *admission.Limiter
	)

	newLimiter := func(maxRequests, maxIdentities int, window time.Duration) *admission.Limiter {
		return admission.New(config.AdmissionConfig{
			MaxRequests:   maxRequests,
			Window:        window,
			MaxIdentities: maxIdentities,
		}, admission.WithClock(func() time.Time { return now }))
	}

	BeforeEach(func() {
		now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		limiter = newLimiter(3, 1000, time.Minute)
	})

	Describe("Allow", func() {
		It("admits up to max requests and denies the rest", func() {
			for i := 0; i < 3; i++ {
				Expect(limiter.Allow("+15551230000")).To(BeTrue(), "call %d should be admitted", i+1)
			}
			Expect(limiter.Allow("+15551230000")).To(BeFalse())
			Expect(limiter.Allow("+15551230000")).To(BeFalse())
		})

		It("does not count denied requests against the window", func() {
			for i := 0; i < 3; i++ {
				Expect(limiter.Allow("+15551230000")).To(BeTrue())
			}
			for i := 0; i < 10; i++ {
				Expect(limiter.Allow("+15551230000")).To(BeFalse())
			}

			// Once the original three expire, capacity is fully restored:
			// the denied calls left no trace.
			now = now.Add(time.Minute)
			for i := 0; i < 3; i++ {
				Expect(limiter.Allow("+15551230000")).To(BeTrue())
			}
		})

		It("tracks identities independently", func() {
			for i := 0; i < 3; i++ {
				Expect(limiter.Allow("+15551230000")).To(BeTrue())
			}
			Expect(limiter.Allow("+15551230000")).To(BeFalse())
			Expect(limiter.Allow("+15559990000")).To(BeTrue())
		})

		It("admits again after the window elapses", func() {
			for i := 0; i < 3; i++ {
				Expect(limiter.Allow("+15551230000")).To(BeTrue())
			}
			Expect(limiter.Allow("+15551230000")).To(BeFalse())

			now = now.Add(time.Minute + time.Second)
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
		})

		It("evicts entries exactly at the window boundary", func() {
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
			Expect(limiter.Allow("+15551230000")).To(BeTrue())

			// Sliding window is exclusive on the old side: an entry aged
			// exactly one window no longer counts.
			now = now.Add(time.Minute)
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
		})

		It("slides rather than resets", func() {
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
			now = now.Add(30 * time.Second)
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
			Expect(limiter.Allow("+15551230000")).To(BeFalse())

			// First entry expires at +60s; only one slot frees up.
			now = now.Add(31 * time.Second)
			Expect(limiter.Allow("+15551230000")).To(BeTrue())
			Expect(limiter.Allow("+15551230000")).To(BeFalse())
		})

		It("is safe under concurrent callers", func() {
			limiter = newLimiter(1000, 10000, time.Minute)

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					identity := []string{"+15551230000", "+15559990000"}[n%2]
					for j := 0; j < 100; j++ {
						limiter.Allow(identity)
					}
				}(i)
			}
			wg.Wait()

			// Both identities hit their independent caps eventually.
			Expect(limiter.Remaining("+15551230000")).To(Equal(600))
			Expect(limiter.Remaining("+15559990000")).To(Equal(600))
		})
	})

	Describe("Remaining", func() {
		It("reports leftover capacity without recording", func() {
			Expect(limiter.Remaining("+15551230000")).To(Equal(3))
			Expect(limiter.Remaining("+15551230000")).To(Equal(3))

			limiter.Allow("+15551230000")
			Expect(limiter.Remaining("+15551230000")).To(Equal(2))
		})
	})

	Describe("sweep", func() {
		It("drops identities with fully expired windows once over the threshold", func() {
			limiter = newLimiter(3, 5, time.Minute)

			for i := 0; i < 5; i++ {
				Expect(limiter.Allow(string(rune('a'+i)))).To(BeTrue())
			}

			// All five windows expire; the sixth identity tips the map over
			// the threshold and triggers the sweep.
			now = now.Add(2 * time.Minute)
			Expect(limiter.Allow("fresh")).To(BeTrue())

			// Swept identities start from a clean window.
			for i := 0; i < 3; i++ {
				Expect(limiter.Allow("a")).To(BeTrue())
			}
		})
	})
})
