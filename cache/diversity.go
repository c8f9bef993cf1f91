// Package cache хранит разнообразие доменов активного курса между изменениями.
package cache

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"course-backend/models"
)

// DefaultTTL сколько посчитанное значение живет без изменений состава
const DefaultTTL = 12 * time.Hour

// Stats разнообразие доменов почты у списка студентов
type Stats struct {
	Ratio         float64 `json:"ratio"`
	UniqueDomains int     `json:"uniqueDomains"`
	StudentsCount int     `json:"studentsCount"`
}

// Percent отдает долю так, как ее показывает клиент: 0.67 -> "67%"
func (s Stats) Percent() string {
	return strconv.Itoa(int(math.Round(s.Ratio*100))) + "%"
}

// ComputeStats считает уникальные домены. Домен - все после первого "@".
func ComputeStats(students []models.Student) Stats {
	n := len(students)
	if n == 0 {
		return Stats{}
	}

	domains := make(map[string]struct{}, n)
	for _, s := range students {
		domain := ""
		if _, after, found := strings.Cut(s.Email, "@"); found {
			domain = after
		}
		domains[domain] = struct{}{}
	}

	u := len(domains)
	return Stats{
		Ratio:         math.Round(float64(u)/float64(n)*100) / 100,
		UniqueDomains: u,
		StudentsCount: n,
	}
}

// Entry то, что лежит в слоте
type Entry struct {
	Stats     Stats     `json:"stats"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Slot хранит не больше одного Entry и номер поколения.
// Invalidate увеличивает поколение и очищает слот одной атомарной операцией,
// StoreIf записывает значение только если поколение не изменилось.
type Slot interface {
	Load(ctx context.Context) (Entry, bool, error)
	Generation(ctx context.Context) (uint64, error)
	StoreIf(ctx context.Context, gen uint64, entry Entry) (bool, error)
	Invalidate(ctx context.Context) error
}

// RosterFunc читает активный состав курса
type RosterFunc func(ctx context.Context) ([]models.Student, error)

// DiversityCache кэш Stats на один слот. Срок жизни проверяется лениво в Get.
type DiversityCache struct {
	slot Slot
	ttl  time.Duration
	now  func() time.Time
}

func NewDiversityCache(slot Slot, ttl time.Duration) *DiversityCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DiversityCache{slot: slot, ttl: ttl, now: time.Now}
}

// WithClock подменяет источник времени
func (c *DiversityCache) WithClock(now func() time.Time) *DiversityCache {
	c.now = now
	return c
}

// Get отдает свежее значение из слота, иначе пересчитывает по составу из fetch
// и кладет результат в слот.
func (c *DiversityCache) Get(ctx context.Context, fetch RosterFunc) (Stats, error) {
	entry, ok, err := c.slot.Load(ctx)
	if err != nil {
		log.Printf("⚠️ Domain diversity cache unavailable, recomputing: %v", err)
	} else if ok && c.now().Before(entry.ExpiresAt) {
		return entry.Stats, nil
	}

	// Поколение читаем до состава: инвалидация после этого момента не даст записать старое значение
	gen, genErr := c.slot.Generation(ctx)

	roster, err := fetch(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := ComputeStats(roster)

	if genErr != nil {
		log.Printf("⚠️ Domain diversity generation unavailable, not caching: %v", genErr)
		return stats, nil
	}
	stored, err := c.slot.StoreIf(ctx, gen, Entry{Stats: stats, ExpiresAt: c.now().Add(c.ttl)})
	if err != nil {
		log.Printf("⚠️ Could not store domain diversity: %v", err)
	} else if !stored {
		log.Printf("🔄 Domain diversity changed while computing, not caching")
	}
	return stats, nil
}

// Invalidate сбрасывает значение независимо от срока жизни
func (c *DiversityCache) Invalidate(ctx context.Context) error {
	if err := c.slot.Invalidate(ctx); err != nil {
		return fmt.Errorf("clear domain diversity: %w", err)
	}
	return nil
}
