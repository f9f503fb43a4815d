package storage

import (
	"encoding/json"
	"errors"
)

const CurrentCodecVersion = 1

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r Run) ([]byte, error) {
	r.CodecVersion = CurrentCodecVersion
	return json.Marshal(r)
}

func DecodeRun(data []byte) (Run, error) {
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, err
	}
	if err := checkVersion(run.Versioned); err != nil {
		return Run{}, err
	}
	return run, nil
}

func EncodeGeneration(g Generation) ([]byte, error) {
	return json.Marshal(g)
}

func DecodeGeneration(data []byte) (Generation, error) {
	var generation Generation
	if err := json.Unmarshal(data, &generation); err != nil {
		return Generation{}, err
	}
	return generation, nil
}

func EncodeChampion(c Champion) ([]byte, error) {
	c.CodecVersion = CurrentCodecVersion
	return json.Marshal(c)
}

func DecodeChampion(data []byte) (Champion, error) {
	var champion Champion
	if err := json.Unmarshal(data, &champion); err != nil {
		return Champion{}, err
	}
	if err := checkVersion(champion.Versioned); err != nil {
		return Champion{}, err
	}
	return champion, nil
}

func checkVersion(v Versioned) error {
	if v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
