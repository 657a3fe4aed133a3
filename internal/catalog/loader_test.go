package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

func validFile() *File {
	return &File{
		Items: []domain.Item{
			{ID: "stem_a", Name: "Stem A", Rarity: domain.RarityCommon, Kind: domain.KindStem},
			{ID: "stem_b", Name: "Stem B", Rarity: domain.RarityRare, Kind: domain.KindStem},
		},
		DropTables: []domain.DropTable{{
			ID: "basic",
			Rows: []domain.DropRow{
				{Rarity: domain.RarityCommon, Weight: 80},
				{Rarity: domain.RarityRare, Weight: 20, PityEvery: 10},
			},
		}},
		Packs: []domain.Pack{{
			ID:        "starter",
			Name:      "Starter",
			Price:     domain.Price{Currency: "COIN", Amount: 100},
			DropTable: "basic",
			Draws:     5,
		}},
	}
}

func TestBuild_ValidCatalog(t *testing.T) {
	snap, err := Build(validFile())
	require.NoError(t, err)

	pack, ok := snap.Pack("starter")
	require.True(t, ok)
	assert.Equal(t, "basic", pack.DropTable)
	assert.Equal(t, 2, snap.ItemCount())
	assert.Len(t, snap.ItemsByRarity(domain.RarityCommon), 1)
}

func TestBuild_DefaultsDrawCount(t *testing.T) {
	file := validFile()
	file.Packs[0].Draws = 0

	snap, err := Build(file)
	require.NoError(t, err)

	pack, _ := snap.Pack("starter")
	assert.Equal(t, DefaultDraws, pack.Draws)
}

func TestBuild_RejectsDuplicateItemID(t *testing.T) {
	file := validFile()
	file.Items = append(file.Items, domain.Item{ID: "stem_a", Rarity: domain.RarityCommon})

	_, err := Build(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate item id")
}

func TestBuild_RejectsUnknownRarity(t *testing.T) {
	file := validFile()
	file.Items[0].Rarity = "mythic"

	_, err := Build(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rarity")
}

func TestBuild_RejectsNonPositiveWeight(t *testing.T) {
	file := validFile()
	file.DropTables[0].Rows[0].Weight = 0

	_, err := Build(file)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestBuild_RejectsMultiplePityRows(t *testing.T) {
	file := validFile()
	file.DropTables[0].Rows[0].PityEvery = 5

	_, err := Build(file)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestBuild_RejectsEmptyRarityPool(t *testing.T) {
	file := validFile()
	file.DropTables[0].Rows = append(file.DropTables[0].Rows, domain.DropRow{
		Rarity: domain.RarityLegendary,
		Weight: 1,
	})

	_, err := Build(file)
	assert.ErrorIs(t, err, domain.ErrEmptyRarityPool)
}

func TestBuild_RejectsPackWithUnknownTable(t *testing.T) {
	file := validFile()
	file.Packs[0].DropTable = "missing"

	_, err := Build(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown drop table")
}

func TestBuild_RejectsHierarchyWithUnknownItem(t *testing.T) {
	file := validFile()
	file.Releases = []domain.Release{{
		ID:    "ep",
		Songs: []domain.Song{{ID: "song", Stems: []string{"missing_stem"}}},
	}}

	_, err := Build(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown item")
}

func TestBuild_RejectsUnknownRewardCharacter(t *testing.T) {
	file := validFile()
	file.FragmentSets = []domain.FragmentSet{{
		ID:              "set",
		Fragments:       []string{"stem_a"},
		RewardCharacter: "ghost",
	}}

	_, err := Build(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown reward character")
}

func TestStore_ReloadKeepsOldSnapshotOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	valid := `{
		"items": [{"id": "stem_a", "name": "Stem A", "rarity": "common", "kind": "stem"}],
		"drop_tables": [{"id": "basic", "rows": [{"rarity": "common", "weight": 100}]}],
		"packs": [{"id": "starter", "name": "Starter", "price": {"currency": "COIN", "amount": 100}, "drop_table": "basic", "draws": 3}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(valid), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)
	before := store.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	err = store.Reload()
	require.Error(t, err)
	assert.Same(t, before, store.Snapshot(), "failed reload must not replace the snapshot")
}

func TestStore_ReloadSwapsAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	doc := `{
		"items": [{"id": "stem_a", "name": "Stem A", "rarity": "common", "kind": "stem"}],
		"drop_tables": [{"id": "basic", "rows": [{"rarity": "common", "weight": 100}]}],
		"packs": [{"id": "starter", "name": "Starter", "price": {"currency": "COIN", "amount": 100}, "drop_table": "basic", "draws": 3}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)
	held := store.Snapshot()

	doc2 := `{
		"items": [
			{"id": "stem_a", "name": "Stem A", "rarity": "common", "kind": "stem"},
			{"id": "stem_b", "name": "Stem B", "rarity": "common", "kind": "stem"}
		],
		"drop_tables": [{"id": "basic", "rows": [{"rarity": "common", "weight": 100}]}],
		"packs": [{"id": "starter", "name": "Starter", "price": {"currency": "COIN", "amount": 100}, "drop_table": "basic", "draws": 3}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc2), 0o600))
	require.NoError(t, store.Reload())

	assert.Equal(t, 1, held.ItemCount(), "in-flight reader keeps its version")
	assert.Equal(t, 2, store.Snapshot().ItemCount())
}
