package model

import "strings"

// Category adalah salah satu dari lima profil pendaftar.
type Category string

const (
	CategoryUMKM        Category = "umkm"
	CategoryMahasiswa   Category = "mahasiswa"
	CategoryProfesional Category = "profesional"
	CategoryKomunitas   Category = "komunitas"
	CategoryUmum        Category = "umum"
)

type CategoryMeta struct {
	Key         Category `json:"key"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
}

// CategoryCatalog urutannya dipakai apa adanya oleh pemilih kategori.
var CategoryCatalog = []CategoryMeta{
	{CategoryUMKM, "UMKM", "🏪", "Pelaku usaha mikro, kecil, dan menengah"},
	{CategoryMahasiswa, "Mahasiswa", "🎓", "Mahasiswa aktif D3/S1/S2/S3"},
	{CategoryProfesional, "Profesional", "💼", "Karyawan, freelancer, atau tenaga ahli"},
	{CategoryKomunitas, "Komunitas", "👥", "Pengurus atau anggota komunitas/organisasi"},
	{CategoryUmum, "Umum", "🌐", "Masyarakat umum di luar kategori lain"},
}

func (c Category) Meta() (CategoryMeta, bool) {
	for _, m := range CategoryCatalog {
		if m.Key == c {
			return m, true
		}
	}
	return CategoryMeta{}, false
}

func (c Category) Valid() bool {
	_, ok := c.Meta()
	return ok
}

// Label mengembalikan label tampilan (UMKM|Mahasiswa|...), kosong jika tidak dikenal.
func (c Category) Label() string {
	m, _ := c.Meta()
	return m.Label
}

// ParseCategory menerima key ("umkm") maupun label ("UMKM"), case-insensitive.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, m := range CategoryCatalog {
		if strings.EqualFold(string(m.Key), s) || strings.EqualFold(m.Label, s) {
			return m.Key, true
		}
	}
	return "", false
}

// CategoryFieldNames adalah whitelist field per kategori, diambil dari set field tetap.
func CategoryFieldNames(c Category) []string {
	sec, ok := defaultCategorySections()[c]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(sec.Fields))
	for _, f := range sec.Fields {
		names = append(names, f.FieldName())
	}
	return names
}
