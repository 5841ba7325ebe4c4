package model

import "strings"

const (
	DefaultDisabilityStatus   = "Tidak memiliki disabilitas"
	DefaultAfterSubmitMessage = "Terima kasih telah mendaftar! Informasi selanjutnya akan kami kirimkan melalui WhatsApp atau email."

	FieldDisabilityStatus = "disability_status"
	FieldIsDisability     = "is_disability" // id lama dari template versi sebelumnya
	FieldDisabilityType   = "disability_type"
)

// RequiredSubmitFields harus terisi (bukan whitespace) sebelum tombol kirim aktif.
var RequiredSubmitFields = []string{
	"full_name", "email", "phone", "gender", "date_of_birth", "education",
	"address", "province_id", "regency_id", "district_id", "village_id", "postal_code",
}

func ptr(v float64) *float64 { return &v }

func text(id, label string, required bool, placeholder string) FieldDefinition {
	return FieldDefinition{ID: id, Type: FieldText, Label: label, Required: required, Placeholder: placeholder, Options: []string{}}
}

func sel(id, label string, required bool, options ...string) FieldDefinition {
	return FieldDefinition{ID: id, Type: FieldSelect, Label: label, Required: required, Options: options}
}

func defaultPersonalFields() []FieldDefinition {
	disabilityType := sel(FieldDisabilityType, "Jenis Disabilitas", true,
		"Disabilitas Fisik", "Disabilitas Sensorik Netra", "Disabilitas Sensorik Rungu/Wicara",
		"Disabilitas Intelektual", "Disabilitas Mental", "Lainnya")

	disabilityStatus := sel(FieldDisabilityStatus, "Status Disabilitas", false,
		DefaultDisabilityStatus, "Penyandang disabilitas", "Lainnya")
	disabilityStatus.Reveals = &disabilityType

	fields := []FieldDefinition{
		text("full_name", "Nama Lengkap", true, "Masukkan nama lengkap sesuai KTP"),
		text("nik", "NIK", false, "16 digit NIK"),
		{ID: "email", Type: FieldEmail, Label: "Email", Required: true, Placeholder: "nama@email.com", Options: []string{}},
		{ID: "phone", Type: FieldPhone, Label: "Nomor WhatsApp", Required: true, Placeholder: "08xxxxxxxxxx", Options: []string{}},
		sel("gender", "Jenis Kelamin", true, "Laki-laki", "Perempuan"),
		{ID: "date_of_birth", Type: FieldDate, Label: "Tanggal Lahir", Required: true, Options: []string{}},
		sel("education", "Pendidikan Terakhir", true, "SD", "SMP", "SMA/SMK", "D3", "S1", "S2", "S3"),
		disabilityStatus,
		{ID: "address", Type: FieldTextarea, Label: "Alamat Lengkap", Required: true, Placeholder: "Nama jalan, RT/RW, nomor rumah", Options: []string{}},
		{ID: "province_id", Type: FieldSelect, Label: "Provinsi", Required: true, Options: []string{}},
		{ID: "regency_id", Type: FieldSelect, Label: "Kabupaten/Kota", Required: true, Options: []string{}},
		{ID: "district_id", Type: FieldSelect, Label: "Kecamatan", Required: true, Options: []string{}},
		{ID: "village_id", Type: FieldSelect, Label: "Kelurahan/Desa", Required: true, Options: []string{}},
		text("postal_code", "Kode Pos", true, "5 digit kode pos"),
		{ID: "reason", Type: FieldTextarea, Label: "Alasan Mengikuti Program", Placeholder: "Ceritakan motivasi Anda", Options: []string{}},
	}
	for i := range fields {
		fields[i].Locked = true
	}
	return fields
}

func defaultCategorySections() map[Category]Section {
	return map[Category]Section{
		CategoryUMKM: {
			Fields: []FieldDefinition{
				text("business_name", "Nama Usaha", true, ""),
				sel("business_type", "Jenis Usaha", true, "Kuliner", "Fashion", "Kerajinan", "Jasa", "Teknologi", "Pertanian", "Lainnya"),
				sel("business_duration", "Lama Usaha Berjalan", false, "< 1 tahun", "1-3 tahun", "3-5 tahun", "> 5 tahun"),
				sel("monthly_revenue", "Omzet per Bulan", false, "< Rp 5 juta", "Rp 5-15 juta", "Rp 15-50 juta", "> Rp 50 juta"),
				{ID: "employee_count", Type: FieldNumber, Label: "Jumlah Karyawan", Min: ptr(0), Options: []string{}},
				text("marketplace", "Marketplace", false, "Tokopedia, Shopee, ..."),
				text("social_media", "Media Sosial Usaha", false, "@namausaha"),
				text("website", "Website", false, "https://"),
				{ID: "business_description", Type: FieldTextarea, Label: "Deskripsi Usaha", Options: []string{}},
			},
		},
		CategoryMahasiswa: {
			Fields: []FieldDefinition{
				text("institution", "Nama Kampus/Institusi", true, ""),
				text("major", "Jurusan/Program Studi", true, ""),
				{ID: "semester", Type: FieldNumber, Label: "Semester", Min: ptr(1), Max: ptr(14), Options: []string{}},
				text("student_number", "NIM", false, ""),
				{ID: "graduation_year", Type: FieldNumber, Label: "Perkiraan Tahun Lulus", Min: ptr(2000), Max: ptr(2100), Options: []string{}},
			},
		},
		CategoryProfesional: {
			Fields: []FieldDefinition{
				text("workplace", "Tempat Bekerja", true, ""),
				text("position", "Jabatan", true, ""),
				sel("work_experience", "Lama Pengalaman Kerja", false, "< 1 tahun", "1-3 tahun", "3-5 tahun", "5-10 tahun", "> 10 tahun"),
				text("industry", "Bidang Industri", false, ""),
				text("certifications", "Sertifikasi", false, ""),
				text("core_competency", "Kompetensi Utama", false, ""),
			},
		},
		CategoryKomunitas: {
			Fields: []FieldDefinition{
				text("community_name", "Nama Komunitas", true, ""),
				text("community_role", "Peran di Komunitas", false, ""),
				{ID: "community_member_count", Type: FieldNumber, Label: "Jumlah Anggota", Min: ptr(1), Options: []string{}},
				text("community_focus", "Fokus Kegiatan", false, ""),
			},
		},
		CategoryUmum: {
			Fields: []FieldDefinition{
				text("occupation", "Pekerjaan", false, ""),
				text("areas_interest", "Bidang Minat", false, ""),
				sel("information_source", "Tahu Program Dari", false, "Instagram", "WhatsApp", "Website", "Teman/Keluarga", "Lainnya"),
			},
		},
	}
}

// GetDefaultSchema mengembalikan kerangka schema tetap. Opsi program_name
// kosong dan loading=false sampai host mengisinya.
func GetDefaultSchema() FormSchema {
	categories := defaultCategorySections()
	for key, sec := range categories {
		meta, _ := key.Meta()
		sec.Title = meta.Label
		sec.Description = meta.Description
		sec.Icon = meta.Icon
		sec.Locked = true
		categories[key] = sec
	}

	return FormSchema{
		Sections: map[string]Section{
			SectionProgramInfo: {
				Title:  "Informasi Program",
				Locked: true,
				Fields: []FieldDefinition{{
					ID:       "program_name",
					Type:     FieldProgramDropdown,
					Label:    "Nama Program",
					Required: true,
					Options:  []string{},
					Locked:   true,
				}},
			},
			SectionPersonalInfo: {
				Title:  "Data Diri",
				Locked: true,
				Fields: defaultPersonalFields(),
			},
		},
		Categories: categories,
		Settings: Settings{
			AfterSubmitMessage: DefaultAfterSubmitMessage,
		},
	}
}

// WithDefaults melengkapi form_config dari backend yang tidak lengkap
// (section/kategori hilang, template lama dengan is_disability) supaya
// renderer selalu menerima struktur tetap.
func (s FormSchema) WithDefaults() FormSchema {
	def := GetDefaultSchema()
	out := s.Clone()

	for key, sec := range def.Sections {
		if cur, ok := out.Sections[key]; !ok || len(cur.Fields) == 0 {
			out.Sections[key] = sec
		}
	}
	for key, sec := range def.Categories {
		if cur, ok := out.Categories[key]; !ok || len(cur.Fields) == 0 {
			out.Categories[key] = sec
		}
	}

	personal := out.Sections[SectionPersonalInfo]
	for i, f := range personal.Fields {
		if (f.ID == FieldDisabilityStatus || f.ID == FieldIsDisability) && f.Reveals == nil {
			child, _ := def.Sections[SectionPersonalInfo].Find(FieldDisabilityType)
			personal.Fields[i].Reveals = &child
		}
	}
	// disability_type yang masih berdiri sendiri (format lama) dipindah jadi anak.
	kept := personal.Fields[:0]
	for _, f := range personal.Fields {
		if f.ID != FieldDisabilityType {
			kept = append(kept, f)
		}
	}
	personal.Fields = kept
	out.Sections[SectionPersonalInfo] = personal

	if strings.TrimSpace(out.Settings.AfterSubmitMessage) == "" {
		out.Settings.AfterSubmitMessage = DefaultAfterSubmitMessage
	}
	if out.Title == "" && out.ProgramName != "" {
		out.Title = TitleFor(out.ProgramName)
	}
	return out
}

// IndicatesDisability bernilai true jika jawaban pertanyaan disabilitas
// menandakan ada disabilitas ("ya"/"lainnya"/selain default).
func IndicatesDisability(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	switch a {
	case "", strings.ToLower(DefaultDisabilityStatus), "tidak", "no", "false", "0":
		return false
	}
	return true
}
