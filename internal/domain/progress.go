package domain

// ReleaseProgress reports completion of one release (EP).
type ReleaseProgress struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SongsComplete int    `json:"songs_complete"`
	SongsTotal    int    `json:"songs_total"`
	CoverOwned    bool   `json:"cover_owned"`
	Complete      bool   `json:"complete"`
}

// SingleProgress reports completion of one single.
type SingleProgress struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StemsOwned int    `json:"stems_owned"`
	StemsTotal int    `json:"stems_total"`
	CoverOwned bool   `json:"cover_owned"`
	Complete   bool   `json:"complete"`
}

// FragmentSetProgress reports completion of one fragment set.
type FragmentSetProgress struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FragmentsOwned int    `json:"fragments_owned"`
	FragmentsTotal int    `json:"fragments_total"`
	Complete       bool   `json:"complete"`
}

// ProgressReport is the full collection-completion view for one owner.
type ProgressReport struct {
	Releases     []ReleaseProgress     `json:"releases"`
	Singles      []SingleProgress      `json:"singles"`
	FragmentSets []FragmentSetProgress `json:"fragment_sets"`
	ItemsOwned   int                   `json:"items_owned"`
	ItemsTotal   int                   `json:"items_total"`
}

// UnlockCandidate is a character earned by completing a catalog node.
type UnlockCandidate struct {
	CharacterID string `json:"character_id"`
	Source      string `json:"source"`
}
