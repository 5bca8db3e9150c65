package storage

import (
	"encoding/json"
	"errors"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRunSummary(s model.RunSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeRunSummary(data []byte) (model.RunSummary, error) {
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.RunSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.RunSummary{}, err
	}
	return summary, nil
}

func EncodeEpisodes(episodes []model.EpisodeResult) ([]byte, error) {
	return json.Marshal(episodes)
}

func DecodeEpisodes(data []byte) ([]model.EpisodeResult, error) {
	var episodes []model.EpisodeResult
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

func EncodeAggregates(aggregates []model.StrategyAggregate) ([]byte, error) {
	return json.Marshal(aggregates)
}

func DecodeAggregates(data []byte) ([]model.StrategyAggregate, error) {
	var aggregates []model.StrategyAggregate
	if err := json.Unmarshal(data, &aggregates); err != nil {
		return nil, err
	}
	return aggregates, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
