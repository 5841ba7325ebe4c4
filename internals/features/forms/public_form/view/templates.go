package view

// Layout adalah kerangka halaman publik; setiap halaman mengisi blok "content".
const Layout = `
{{ define "layout" }}
<!DOCTYPE html>
<html lang="id">
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<title>{{ if .Title }}{{ .Title }}{{ else }}Pendaftaran Impala{{ end }}</title>
	</head>
	<body>
		<main class="impala-form">
			{{ template "content" . }}
		</main>
	</body>
</html>
{{ end }}
`

// Form merender View dari renderer: loading, error (timeout / tidak ditemukan),
// form siap diisi, atau layar sukses.
const Form = `
{{ define "field" }}
	<div class="field{{ if .Required }} required{{ end }}" data-field="{{ .ID }}">
		<label for="{{ .ID }}">{{ .Label }}{{ if .Required }} *{{ end }}</label>
		{{ if eq (print .Control) "select" }}
			<select id="{{ .ID }}" name="{{ .Name }}"{{ if .Required }} required{{ end }}{{ if .Disabled }} disabled{{ end }}>
				{{ $cur := .Value }}
				{{ range .Options }}
					<option value="{{ .Value }}"{{ if eq .Value $cur }} selected{{ end }}>{{ .Label }}</option>
				{{ end }}
			</select>
			{{ if .Loading }}<span class="loading">Memuat...</span>{{ end }}
		{{ else if eq (print .Control) "textarea" }}
			<textarea id="{{ .ID }}" name="{{ .Name }}" placeholder="{{ .Placeholder }}"{{ if .Required }} required{{ end }}>{{ .Value }}</textarea>
		{{ else }}
			<input id="{{ .ID }}" name="{{ .Name }}" type="{{ .InputType }}" value="{{ .Value }}" placeholder="{{ .Placeholder }}"{{ if .Min }} min="{{ deref .Min }}"{{ end }}{{ if .Max }} max="{{ deref .Max }}"{{ end }}{{ if .Required }} required{{ end }}>
		{{ end }}
	</div>
{{ end }}

{{ define "content" }}
	{{ if eq (print .State) "loading" }}
		<div class="state loading">Memuat form...</div>
	{{ else if eq (print .State) "error" }}
		<div class="state error{{ if .HasTimeout }} timeout{{ end }}">
			<p>{{ .Error }}</p>
			<a class="retry" href="/register/{{ .Slug }}">Coba lagi</a>
		</div>
	{{ else if .Success }}
		<div class="state success">
			<h2>Pendaftaran Berhasil</h2>
			<dl>
				<dt>Program</dt><dd>{{ .Success.ProgramName }}</dd>
				<dt>Nomor Pendaftaran</dt><dd class="submission-id">{{ .Success.SubmissionID }}</dd>
				<dt>Waktu</dt><dd>{{ .Success.SubmittedAt }}</dd>
			</dl>
			{{ if .AfterSubmitMessage }}<p class="after-submit">{{ .AfterSubmitMessage }}</p>{{ end }}
			{{ if .WhatsappGroupLink }}<a class="whatsapp" href="{{ .WhatsappGroupLink }}">Gabung Grup WhatsApp</a>{{ end }}
		</div>
	{{ else }}
		<form method="post" action="/register/{{ .Slug }}/drafts/{{ .DraftID }}/submit">
			<h1>{{ .Title }}</h1>
			<p class="program">{{ .ProgramName }}</p>

			<fieldset class="personal">
				<legend>Data Diri</legend>
				{{ range .PersonalFields }}{{ template "field" . }}{{ end }}
			</fieldset>

			<fieldset class="categories">
				<legend>Kategori Pendaftar</legend>
				{{ range .Categories }}
					<label class="category{{ if .Selected }} selected{{ end }}">
						<input type="radio" name="category" value="{{ .Key }}"{{ if .Selected }} checked{{ end }}>
						<span class="icon">{{ .Icon }}</span> {{ .Label }}
						<small>{{ .Description }}</small>
					</label>
				{{ end }}
			</fieldset>

			{{ if .CategoryFields }}
				<fieldset class="category-fields">
					<legend>{{ .CategoryTitle }}</legend>
					{{ range .CategoryFields }}{{ template "field" . }}{{ end }}
				</fieldset>
			{{ end }}

			<label class="terms">
				<input type="checkbox" name="terms_accepted" value="true"{{ if .TermsAccepted }} checked{{ end }}>
				Saya menyetujui syarat dan ketentuan
			</label>

			{{ if .SubmitError }}<p class="submit-error">{{ .SubmitError }}</p>{{ end }}
			<button type="submit" name="intent" value="save" class="save" formnovalidate>Simpan</button>
			<button type="submit" name="intent" value="submit"{{ if .Submit.Disabled }} disabled title="{{ .Submit.Tooltip }}"{{ end }}>Kirim Pendaftaran</button>
		</form>
	{{ end }}
{{ end }}
`
