// Package registry resolves per-city stop coordinate tables and hub defaults
// from a layered data directory: an optional per-city override file
// (stops/<slug>.json) wins over the shared cities.json. Absent cities yield
// an empty table, never an error.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.fiblab.net/sim/tramsim/sim"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "registry")

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a city name to its registry key,
// e.g. "Bournemouth, UK" -> "bournemouth-uk".
func Slugify(name string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

type stopRecord struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type cityRecord struct {
	Name  string       `json:"name"`
	Slug  string       `json:"slug"`
	Hub   string       `json:"hub"`
	Stops []stopRecord `json:"stops"`
}

// stops/<slug>.json的两种形式：裸数组或{"stops": [...]}
type overrideFile struct {
	Stops []stopRecord `json:"stops"`
}

type cityEntry struct {
	hub   string
	stops sim.StopTable
}

// Registry is an explicitly constructed stop lookup with a defined lifecycle:
// built once per data directory, city entries cached by slug.
type Registry struct {
	dataDir string
	cache   *xsync.MapOf[string, *cityEntry]
}

func New(dataDir string) *Registry {
	return &Registry{
		dataDir: dataDir,
		cache:   xsync.NewMapOf[string, *cityEntry](),
	}
}

// Stops returns the stop coordinate table of the city, empty when unknown.
func (r *Registry) Stops(city string) sim.StopTable {
	return r.entry(city).stops
}

// Hub returns the city's default hub stop name, "" when unknown.
func (r *Registry) Hub(city string) string {
	return r.entry(city).hub
}

func (r *Registry) entry(city string) *cityEntry {
	slug := Slugify(city)
	e, _ := r.cache.LoadOrCompute(slug, func() *cityEntry {
		return r.load(city, slug)
	})
	return e
}

func (r *Registry) load(city, slug string) *cityEntry {
	entry := &cityEntry{stops: sim.StopTable{}}

	// 共享cities.json提供hub与经停站
	if cities, err := r.readCities(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("failed to read cities.json: %v", err)
		}
	} else {
		for _, c := range cities {
			if c.Name == city || c.Slug == slug || Slugify(c.Name) == slug {
				entry.hub = c.Hub
				entry.stops = toTable(c.Stops)
				break
			}
		}
	}

	// 城市级override覆盖经停站表
	overridePath := filepath.Join(r.dataDir, "stops", slug+".json")
	if b, err := os.ReadFile(overridePath); err == nil {
		var o overrideFile
		if err := json.Unmarshal(b, &o); err != nil || o.Stops == nil {
			var bare []stopRecord
			if err := json.Unmarshal(b, &bare); err != nil {
				log.Warnf("invalid stop override %s: %v", overridePath, err)
				return entry
			}
			o.Stops = bare
		}
		entry.stops = toTable(o.Stops)
	}
	return entry
}

func (r *Registry) readCities() ([]cityRecord, error) {
	b, err := os.ReadFile(filepath.Join(r.dataDir, "cities.json"))
	if err != nil {
		return nil, err
	}
	var cities []cityRecord
	if err := json.Unmarshal(b, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func toTable(stops []stopRecord) sim.StopTable {
	table := make(sim.StopTable, len(stops))
	for _, s := range stops {
		if s.Name == "" {
			// 容忍坏行
			continue
		}
		table[s.Name] = sim.LatLon{Lat: s.Lat, Lon: s.Lon}
	}
	return table
}
