package profile

import "strings"

// MonOriginalGameName names the game a record came from, given the met game
// id stored in the record and the game whose save holds it. Only custom hack
// ids name another game; base version ids and unknown ids resolve to the
// current game. The current hack's own id marks a record that was moved in
// from the vanilla base game.
func (p *GameProfile) MonOriginalGameName(metGameID uint8) string {
	current := p.Details

	hack, ok := p.registry.CustomHackName(metGameID)
	if !ok {
		return current.Name
	}
	if strings.EqualFold(hack, current.Name) {
		if vanilla, ok := p.registry.BaseVersionName(current.BaseVersion); ok {
			return vanilla
		}
		return current.Name
	}
	return hack
}

// MetIDToBeSaved converts a record's origin game name back to the met game
// id stored in this game's save. It is the inverse of MonOriginalGameName
// for names produced by it.
func (p *GameProfile) MetIDToBeSaved(monGameName string) uint8 {
	current := p.Details

	if sig, ok := p.registry.SignatureByName(monGameName); ok {
		mon, _ := p.registry.Details(sig)
		switch {
		case mon.Region == current.Region:
			return current.BaseVersion
		case mon.Version == current.BaseVersion:
			return current.Version
		default:
			return mon.Version
		}
	}

	if id, ok := p.registry.VersionByName(monGameName); ok {
		return id
	}

	if current.BaseVersion != 0 {
		return current.BaseVersion
	}
	return VersionFireRed
}
