package data

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
)

// ErrUnknownPrefab is returned when a spawn entry names no loaded prefab.
var ErrUnknownPrefab = errors.New("unknown prefab")

// Prefab is an entity template loaded from YAML. Every entity gets a
// Position and a Name; the remaining components are optional.
type Prefab struct {
	Name      string        `yaml:"name"`
	Label     string        `yaml:"label,omitempty"` // display name, defaults to Name
	Velocity  *VelocitySpec `yaml:"velocity,omitempty"`
	Health    *HealthSpec   `yaml:"health,omitempty"`
	Lifetime  float64       `yaml:"lifetime,omitempty"` // seconds, 0 = forever
	Inventory []ItemSpec    `yaml:"inventory,omitempty"`
}

type VelocitySpec struct {
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

type HealthSpec struct {
	HP    int32 `yaml:"hp"`
	MaxHP int32 `yaml:"max_hp"` // defaults to HP
	Regen int32 `yaml:"regen"`
}

type ItemSpec struct {
	ID    int32 `yaml:"id"`
	Count int32 `yaml:"count"`
}

// SpawnEntry places Count copies of a prefab around (X, Y).
type SpawnEntry struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"` // uniform jitter on each axis
}

type prefabListFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// PrefabTable holds all prefabs indexed by name.
type PrefabTable struct {
	prefabs map[string]*Prefab
	order   []string
}

// LoadPrefabTable loads prefabs from a YAML file.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab_list: %w", err)
	}
	return ParsePrefabTable(raw)
}

// ParsePrefabTable parses the YAML body of a prefab list.
func ParsePrefabTable(raw []byte) (*PrefabTable, error) {
	var f prefabListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefab_list: %w", err)
	}
	t := &PrefabTable{prefabs: make(map[string]*Prefab, len(f.Prefabs))}
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("prefab_list: entry %d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("prefab_list: duplicate prefab %q", p.Name)
		}
		if p.Health != nil && p.Health.MaxHP == 0 {
			p.Health.MaxHP = p.Health.HP
		}
		t.prefabs[p.Name] = p
		t.order = append(t.order, p.Name)
	}
	return t, nil
}

// Get returns a prefab by name, or nil if not found.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Count returns the number of loaded prefabs.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Names returns prefab names in file order.
func (t *PrefabTable) Names() []string {
	return t.order
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	return f.Spawns, nil
}

// SpawnTerms is the access Spawn and Instantiate need.
func SpawnTerms() []access.Term {
	return []access.Term{
		access.Writes[component.Position](),
		access.Writes[component.Velocity](),
		access.Writes[component.Health](),
		access.Writes[component.Lifetime](),
		access.Writes[component.Name](),
		access.Writes[component.Inventory](),
	}
}

// Instantiate creates one entity from p at pos.
func Instantiate(acc *access.Access, p *Prefab, pos component.Position) ecs.EntityID {
	id := acc.Registry().Create()
	access.Add(acc, id, pos)
	label := p.Label
	if label == "" {
		label = p.Name
	}
	access.Add(acc, id, component.Name{Value: label, Prefab: p.Name})
	if p.Velocity != nil {
		access.Add(acc, id, component.Velocity{DX: p.Velocity.DX, DY: p.Velocity.DY})
	}
	if p.Health != nil {
		access.Add(acc, id, component.Health{HP: p.Health.HP, MaxHP: p.Health.MaxHP, Regen: p.Health.Regen})
	}
	if p.Lifetime > 0 {
		access.Add(acc, id, component.Lifetime{Remaining: p.Lifetime})
	}
	if len(p.Inventory) > 0 {
		inv := component.Inventory{Items: make([]component.Item, len(p.Inventory))}
		for i, it := range p.Inventory {
			inv.Items[i] = component.Item{ID: it.ID, Count: it.Count}
		}
		access.Add(acc, id, inv)
	}
	return id
}

// Spawn instantiates every entry and returns the created entities. A nil rng
// jitters spread entries with the package-level source. Entries naming
// unknown prefabs are skipped and reported in the returned error.
func Spawn(acc *access.Access, t *PrefabTable, entries []SpawnEntry, rng *rand.Rand) ([]ecs.EntityID, error) {
	if err := acc.Covers(SpawnTerms()...); err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	jitter := rand.Float64
	if rng != nil {
		jitter = rng.Float64
	}
	var (
		ids  []ecs.EntityID
		errs []error
	)
	for i, e := range entries {
		p := t.Get(e.Prefab)
		if p == nil {
			errs = append(errs, fmt.Errorf("spawn entry %d: %w %q", i, ErrUnknownPrefab, e.Prefab))
			continue
		}
		count := max(e.Count, 1)
		for range count {
			pos := component.Position{X: e.X, Y: e.Y}
			if e.Spread > 0 {
				pos.X += (jitter()*2 - 1) * e.Spread
				pos.Y += (jitter()*2 - 1) * e.Spread
			}
			ids = append(ids, Instantiate(acc, p, pos))
		}
	}
	return ids, errors.Join(errs...)
}
