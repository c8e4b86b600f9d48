package mission

import "context"

// distinct counts an event only the first time a given param value is seen,
// remembering seen values in the save blob.
type distinct struct {
	Default
	param string
}

func (m distinct) AreParamsMatchingVariantAndSave(_ Variant, params Params, save SaveBlob) bool {
	v, ok := params.Int(m.param)
	return ok && !save.Contains(v)
}

func (m distinct) UpdateSaveBlob(_ Variant, save SaveBlob, params Params) SaveBlob {
	v, ok := params.Int(m.param)
	if !ok {
		return append(SaveBlob{}, save...)
	}
	return save.With(v)
}

func winBossWithDifferentClasses() Mission { return distinct{param: "classId"} }

func meetDifferentPlayers() Mission { return distinct{param: "metPlayerId"} }

func exploreDifferentPlaces() Mission { return distinct{param: "mapId"} }

// ownDifferentPetTypes starts from the pet types the player already owned.
type ownDifferentPetTypes struct {
	distinct
}

func (ownDifferentPetTypes) InitialNumberDone(ctx context.Context, p Player, lookup Lookup) (int, error) {
	if lookup == nil {
		return 0, nil
	}
	return lookup.CountDistinctPetTypes(ctx, p.ID)
}
