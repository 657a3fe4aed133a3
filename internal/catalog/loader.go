package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// File is the on-disk catalog document.
type File struct {
	Packs        []domain.Pack        `json:"packs"`
	DropTables   []domain.DropTable   `json:"drop_tables"`
	Items        []domain.Item        `json:"items"`
	Characters   []domain.Character   `json:"characters"`
	Releases     []domain.Release     `json:"releases"`
	Singles      []domain.Single      `json:"singles"`
	FragmentSets []domain.FragmentSet `json:"fragment_sets"`
}

// DefaultDraws is the pack draw count used when a pack omits it.
const DefaultDraws = 5

// LoadFile reads, validates and indexes a catalog file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return Build(&file)
}

// Build validates a catalog document and produces an indexed snapshot.
func Build(file *File) (*Snapshot, error) {
	snap := &Snapshot{
		packs:         make(map[string]domain.Pack, len(file.Packs)),
		tables:        make(map[string]domain.DropTable, len(file.DropTables)),
		items:         make(map[string]domain.Item, len(file.Items)),
		itemsByRarity: make(map[domain.Rarity][]domain.Item),
		characters:    make(map[string]domain.Character, len(file.Characters)),
		releases:      file.Releases,
		singles:       file.Singles,
		fragmentSets:  file.FragmentSets,
	}

	for _, item := range file.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("item with empty id")
		}
		if !item.Rarity.Valid() {
			return nil, fmt.Errorf("item %q: unknown rarity %q", item.ID, item.Rarity)
		}
		if _, dup := snap.items[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", item.ID)
		}
		snap.items[item.ID] = item
		snap.itemsByRarity[item.Rarity] = append(snap.itemsByRarity[item.Rarity], item)
	}

	for _, table := range file.DropTables {
		if err := validateTable(table, snap); err != nil {
			return nil, fmt.Errorf("drop table %q: %w", table.ID, err)
		}
		snap.tables[table.ID] = table
	}

	for _, pack := range file.Packs {
		if pack.ID == "" {
			return nil, fmt.Errorf("pack with empty id")
		}
		if _, ok := snap.tables[pack.DropTable]; !ok {
			return nil, fmt.Errorf("pack %q references unknown drop table %q", pack.ID, pack.DropTable)
		}
		if pack.Price.Amount < 0 || pack.Price.Currency == "" {
			return nil, fmt.Errorf("pack %q has an invalid price", pack.ID)
		}
		if pack.Draws == 0 {
			pack.Draws = DefaultDraws
		}
		if pack.Draws < 1 {
			return nil, fmt.Errorf("pack %q has an invalid draw count %d", pack.ID, pack.Draws)
		}
		snap.packs[pack.ID] = pack
	}

	for _, ch := range file.Characters {
		if ch.ID == "" {
			return nil, fmt.Errorf("character with empty id")
		}
		snap.characters[ch.ID] = ch
	}

	if err := validateHierarchy(file, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

// validateTable enforces the drop table invariants: positive total weight, at
// most one pity row, and a non-empty item pool for every referenced rarity.
func validateTable(table domain.DropTable, snap *Snapshot) error {
	if len(table.Rows) == 0 {
		return fmt.Errorf("%w: no rows", domain.ErrInvalidDropTable)
	}

	total := 0
	pityRows := 0
	for _, row := range table.Rows {
		if !row.Rarity.Valid() {
			return fmt.Errorf("%w: unknown rarity %q", domain.ErrInvalidDropTable, row.Rarity)
		}
		if row.Weight <= 0 {
			return fmt.Errorf("%w: rarity %q has non-positive weight %d", domain.ErrInvalidDropTable, row.Rarity, row.Weight)
		}
		if row.PityEvery < 0 {
			return fmt.Errorf("%w: rarity %q has negative pity_every", domain.ErrInvalidDropTable, row.Rarity)
		}
		if row.PityEvery > 0 {
			pityRows++
		}
		if len(snap.itemsByRarity[row.Rarity]) == 0 {
			return fmt.Errorf("%w %q", domain.ErrEmptyRarityPool, row.Rarity)
		}
		total += row.Weight
	}

	if total <= 0 {
		return fmt.Errorf("%w: total weight %d", domain.ErrInvalidDropTable, total)
	}
	if pityRows > 1 {
		return fmt.Errorf("%w: more than one pity row", domain.ErrInvalidDropTable)
	}
	return nil
}

func validateHierarchy(file *File, snap *Snapshot) error {
	requireItem := func(node, id string) error {
		if _, ok := snap.items[id]; !ok {
			return fmt.Errorf("%s references unknown item %q", node, id)
		}
		return nil
	}
	requireCharacter := func(node, id string) error {
		if id == "" {
			return nil
		}
		if _, ok := snap.characters[id]; !ok {
			return fmt.Errorf("%s references unknown reward character %q", node, id)
		}
		return nil
	}

	for _, rel := range file.Releases {
		node := fmt.Sprintf("release %q", rel.ID)
		for _, song := range rel.Songs {
			for _, stem := range song.Stems {
				if err := requireItem(node, stem); err != nil {
					return err
				}
			}
		}
		if rel.Cover != "" {
			if err := requireItem(node, rel.Cover); err != nil {
				return err
			}
		}
		if err := requireCharacter(node, rel.RewardCharacter); err != nil {
			return err
		}
	}

	for _, single := range file.Singles {
		node := fmt.Sprintf("single %q", single.ID)
		for _, stem := range single.Stems {
			if err := requireItem(node, stem); err != nil {
				return err
			}
		}
		if single.Cover != "" {
			if err := requireItem(node, single.Cover); err != nil {
				return err
			}
		}
		if err := requireCharacter(node, single.RewardCharacter); err != nil {
			return err
		}
	}

	for _, set := range file.FragmentSets {
		node := fmt.Sprintf("fragment set %q", set.ID)
		for _, frag := range set.Fragments {
			if err := requireItem(node, frag); err != nil {
				return err
			}
		}
		if err := requireCharacter(node, set.RewardCharacter); err != nil {
			return err
		}
	}

	return nil
}
