package progress

import (
	"github.com/stemcrate/StemCrate_Go/internal/catalog"
	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// Unlock source tags recorded on materialized unlock records.
const (
	SourceRelease     = "release"
	SourceSingle      = "single"
	SourceFragmentSet = "fragment_set"
)

// ComputeProgress derives collection completion for the owned item set over
// one catalog snapshot.
//
// Completion rules:
//   - a song is complete iff all of its stems are owned (zero stems: never)
//   - a release is complete iff every song is complete and its cover is owned
//   - a single is complete iff all stems and its cover are owned
//   - a fragment set is complete iff all fragments are owned
func ComputeProgress(owned map[string]bool, snap *catalog.Snapshot) *domain.ProgressReport {
	report := &domain.ProgressReport{
		ItemsTotal: snap.ItemCount(),
	}
	for id := range owned {
		if _, ok := snap.Item(id); ok {
			report.ItemsOwned++
		}
	}

	for _, rel := range snap.Releases() {
		rp := domain.ReleaseProgress{
			ID:         rel.ID,
			Name:       rel.Name,
			SongsTotal: len(rel.Songs),
			CoverOwned: rel.Cover != "" && owned[rel.Cover],
		}
		for _, song := range rel.Songs {
			if songComplete(song, owned) {
				rp.SongsComplete++
			}
		}
		rp.Complete = rp.SongsTotal > 0 && rp.SongsComplete == rp.SongsTotal && rp.CoverOwned
		report.Releases = append(report.Releases, rp)
	}

	for _, single := range snap.Singles() {
		sp := domain.SingleProgress{
			ID:         single.ID,
			Name:       single.Name,
			StemsTotal: len(single.Stems),
			StemsOwned: countOwned(single.Stems, owned),
			CoverOwned: single.Cover != "" && owned[single.Cover],
		}
		sp.Complete = sp.StemsTotal > 0 && sp.StemsOwned == sp.StemsTotal && sp.CoverOwned
		report.Singles = append(report.Singles, sp)
	}

	for _, set := range snap.FragmentSets() {
		fp := domain.FragmentSetProgress{
			ID:             set.ID,
			Name:           set.Name,
			FragmentsTotal: len(set.Fragments),
			FragmentsOwned: countOwned(set.Fragments, owned),
		}
		fp.Complete = fp.FragmentsTotal > 0 && fp.FragmentsOwned == fp.FragmentsTotal
		report.FragmentSets = append(report.FragmentSets, fp)
	}

	return report
}

// Candidates returns the reward characters earned by every complete node.
func Candidates(owned map[string]bool, snap *catalog.Snapshot) []domain.UnlockCandidate {
	var candidates []domain.UnlockCandidate
	report := ComputeProgress(owned, snap)

	for i, rp := range report.Releases {
		if rp.Complete {
			if ch := snap.Releases()[i].RewardCharacter; ch != "" {
				candidates = append(candidates, domain.UnlockCandidate{CharacterID: ch, Source: SourceRelease})
			}
		}
	}
	for i, sp := range report.Singles {
		if sp.Complete {
			if ch := snap.Singles()[i].RewardCharacter; ch != "" {
				candidates = append(candidates, domain.UnlockCandidate{CharacterID: ch, Source: SourceSingle})
			}
		}
	}
	for i, fp := range report.FragmentSets {
		if fp.Complete {
			if ch := snap.FragmentSets()[i].RewardCharacter; ch != "" {
				candidates = append(candidates, domain.UnlockCandidate{CharacterID: ch, Source: SourceFragmentSet})
			}
		}
	}

	return candidates
}

func songComplete(song domain.Song, owned map[string]bool) bool {
	if len(song.Stems) == 0 {
		return false
	}
	return countOwned(song.Stems, owned) == len(song.Stems)
}

func countOwned(ids []string, owned map[string]bool) int {
	n := 0
	for _, id := range ids {
		if owned[id] {
			n++
		}
	}
	return n
}
