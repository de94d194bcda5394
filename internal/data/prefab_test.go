package data

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
)

const prefabYAML = `
prefabs:
  - name: slime
    label: Green Slime
    velocity: {dx: 1, dy: 0}
    health: {hp: 20, regen: 1}
    inventory:
      - {id: 40308, count: 3}
  - name: spark
    lifetime: 1.5
  - name: rock
`

func TestParsePrefabTable(t *testing.T) {
	tbl, err := ParsePrefabTable([]byte(prefabYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Count())
	assert.Equal(t, []string{"slime", "spark", "rock"}, tbl.Names())

	slime := tbl.Get("slime")
	require.NotNil(t, slime)
	assert.Equal(t, "Green Slime", slime.Label)
	assert.Equal(t, int32(20), slime.Health.MaxHP, "max_hp defaults to hp")
	assert.Equal(t, []ItemSpec{{ID: 40308, Count: 3}}, slime.Inventory)
	assert.Equal(t, 1.5, tbl.Get("spark").Lifetime)
	assert.Nil(t, tbl.Get("dragon"))
}

func TestParsePrefabTable_Errors(t *testing.T) {
	_, err := ParsePrefabTable([]byte("prefabs: [name: x"))
	assert.ErrorContains(t, err, "parse prefab_list")

	_, err = ParsePrefabTable([]byte("prefabs:\n  - name: a\n  - name: a\n"))
	assert.ErrorContains(t, err, `duplicate prefab "a"`)

	_, err = ParsePrefabTable([]byte("prefabs:\n  - label: nameless\n"))
	assert.ErrorContains(t, err, "has no name")
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	prefabs := filepath.Join(dir, "prefabs.yaml")
	spawns := filepath.Join(dir, "spawns.yaml")
	require.NoError(t, os.WriteFile(prefabs, []byte(prefabYAML), 0o644))
	require.NoError(t, os.WriteFile(spawns, []byte("spawns:\n  - {prefab: slime, x: 1, y: 2, count: 4}\n"), 0o644))

	tbl, err := LoadPrefabTable(prefabs)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Count())

	list, err := LoadSpawnList(spawns)
	require.NoError(t, err)
	assert.Equal(t, []SpawnEntry{{Prefab: "slime", X: 1, Y: 2, Count: 4}}, list)

	_, err = LoadPrefabTable(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadSpawnList(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSpawn(t *testing.T) {
	tbl, err := ParsePrefabTable([]byte(prefabYAML))
	require.NoError(t, err)
	r := ecs.NewRegistry()
	acc := access.New(r, SpawnTerms()...)

	ids, err := Spawn(acc, tbl, []SpawnEntry{
		{Prefab: "slime", X: 10, Y: 10, Count: 3, Spread: 2},
		{Prefab: "dragon", Count: 2},
		{Prefab: "spark", X: -1, Y: -1},
	}, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, ErrUnknownPrefab)
	require.Len(t, ids, 4, "count 0 spawns one and unknown prefabs spawn none")
	assert.Equal(t, 4, r.Len())

	for _, id := range ids[:3] {
		pos := ecs.Get[component.Position](r, id)
		assert.InDelta(t, 10, pos.X, 2)
		assert.InDelta(t, 10, pos.Y, 2)
		assert.Equal(t, component.Name{Value: "Green Slime", Prefab: "slime"}, *ecs.Get[component.Name](r, id))
		assert.Equal(t, component.Health{HP: 20, MaxHP: 20, Regen: 1}, *ecs.Get[component.Health](r, id))
		assert.Equal(t, int32(3), ecs.Get[component.Inventory](r, id).Total(40308))
		assert.False(t, ecs.Has[component.Lifetime](r, id))
	}

	spark := ids[3]
	assert.Equal(t, component.Position{X: -1, Y: -1}, *ecs.Get[component.Position](r, spark))
	assert.Equal(t, 1.5, ecs.Get[component.Lifetime](r, spark).Remaining)
	assert.False(t, ecs.Has[component.Velocity](r, spark))
	assert.Equal(t, "spark", ecs.Get[component.Name](r, spark).Value)
}

func TestSpawn_InventoriesAreNotShared(t *testing.T) {
	tbl, err := ParsePrefabTable([]byte(prefabYAML))
	require.NoError(t, err)
	r := ecs.NewRegistry()
	ids, err := Spawn(access.New(r, SpawnTerms()...), tbl, []SpawnEntry{{Prefab: "slime", Count: 2}}, nil)
	require.NoError(t, err)

	ecs.Get[component.Inventory](r, ids[0]).Items[0].Count = 0
	assert.Equal(t, int32(3), ecs.Get[component.Inventory](r, ids[1]).Items[0].Count)
	assert.Equal(t, int32(3), tbl.Get("slime").Inventory[0].Count)
}

func TestSpawn_SpreadWithoutRand(t *testing.T) {
	tbl, err := ParsePrefabTable([]byte(prefabYAML))
	require.NoError(t, err)
	r := ecs.NewRegistry()

	var ids []ecs.EntityID
	require.NotPanics(t, func() {
		ids, err = Spawn(access.New(r, SpawnTerms()...), tbl,
			[]SpawnEntry{{Prefab: "rock", X: 10, Y: 10, Count: 8, Spread: 2}}, nil)
	})
	require.NoError(t, err)
	require.Len(t, ids, 8)
	for _, id := range ids {
		pos := ecs.Get[component.Position](r, id)
		assert.InDelta(t, 10, pos.X, 2)
		assert.InDelta(t, 10, pos.Y, 2)
	}
}

func TestSpawn_RequiresWriteAccess(t *testing.T) {
	tbl, err := ParsePrefabTable([]byte(prefabYAML))
	require.NoError(t, err)
	r := ecs.NewRegistry()
	acc := access.New(r, access.Writes[component.Position](), access.Reads[component.Name]())

	ids, err := Spawn(acc, tbl, []SpawnEntry{{Prefab: "rock"}}, nil)
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, access.ErrReadOnly)
	assert.ErrorIs(t, err, access.ErrNotCovered)
	assert.Zero(t, r.Len())
}
