package model

import (
	"bytes"
	"strings"

	"github.com/bytedance/sonic"
)

// LocationNode adalah satu opsi wilayah untuk dropdown.
type LocationNode struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Level adalah tingkat wilayah pada cascade provinsi → kab/kota → kecamatan → kelurahan.
type Level int

const (
	LevelProvince Level = iota
	LevelRegency
	LevelDistrict
	LevelVillage
)

var Levels = []Level{LevelProvince, LevelRegency, LevelDistrict, LevelVillage}

var levelKeys = [...]string{"province", "regency", "district", "village"}

// plural dipakai di pesan error ("Failed to load regencies").
var levelPlural = [...]string{"provinces", "regencies", "districts", "villages"}

func (l Level) String() string {
	if l < LevelProvince || l > LevelVillage {
		return "unknown"
	}
	return levelKeys[l]
}

func (l Level) IDField() string   { return l.String() + "_id" }
func (l Level) NameField() string { return l.String() + "_name" }
func (l Level) Plural() string    { return levelPlural[l] }

// Child mengembalikan level di bawahnya; false untuk kelurahan.
func (l Level) Child() (Level, bool) {
	if l >= LevelVillage {
		return 0, false
	}
	return l + 1, true
}

// Descendants adalah semua level di bawah l, urut dari yang terdekat.
func (l Level) Descendants() []Level {
	var out []Level
	for d := l + 1; d <= LevelVillage; d++ {
		out = append(out, d)
	}
	return out
}

// LevelForField memetakan "regency_id" → LevelRegency.
func LevelForField(name string) (Level, bool) {
	for _, l := range Levels {
		if l.IDField() == name {
			return l, true
		}
	}
	return 0, false
}

// FindLabel mencari label untuk value; kosong jika tidak ada.
func FindLabel(nodes []LocationNode, value string) string {
	if value == "" {
		return ""
	}
	for _, n := range nodes {
		if n.Value == value {
			return n.Label
		}
	}
	return ""
}

// GeoRecord adalah bentuk item dari layanan data wilayah: {id, nama}.
// Beberapa mirror memakai "name", dan id kadang berupa angka.
type GeoRecord struct {
	ID   flexString `json:"id"`
	Nama string     `json:"nama"`
	Name string     `json:"name"`
}

func (g GeoRecord) Node() LocationNode {
	label := g.Nama
	if label == "" {
		label = g.Name
	}
	return LocationNode{Value: strings.TrimSpace(string(g.ID)), Label: strings.TrimSpace(label)}
}

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(b)
	return nil
}
