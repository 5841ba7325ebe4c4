package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/helpers/dbtime"
)

const (
	submitPath = "/impala"

	MsgSubmitFailed = "Gagal mengirim pendaftaran. Silakan coba lagi."
)

// SubmissionIDUnknown ditampilkan jika backend menerima pendaftaran tanpa
// mengembalikan id.
const SubmissionIDUnknown = "-"

// Backend adalah bagian apiclient.Client yang dipakai service ini.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Submitter struct {
	api Backend
	log logrus.FieldLogger
}

func NewSubmitter(api Backend, log logrus.FieldLogger) *Submitter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Submitter{api: api, log: log}
}

type submitResult struct {
	ID json.RawMessage `json:"id"`
}

// Submit mengirim payload ke POST /impala dan mengembalikan id pendaftaran.
// Error dikembalikan apa adanya (biasanya *apiclient.APIError) supaya caller
// bisa menampilkan pesan server dan tetap menyimpan draft.
func (s *Submitter) Submit(ctx context.Context, payload SubmissionPayload) (string, error) {
	var res submitResult
	if err := s.api.Post(ctx, submitPath, payload, &res); err != nil {
		s.log.WithError(err).WithField("program_name", payload["program_name"]).
			Error("[SUBMIT] gagal mengirim pendaftaran")
		return "", err
	}
	id := strings.Trim(strings.TrimSpace(string(res.ID)), `"`)
	if id == "" || id == "null" {
		// data sudah tercatat di backend; mengulang submit akan menggandakan
		s.log.WithField("program_name", payload["program_name"]).
			Warn("[SUBMIT] backend tidak mengembalikan id pendaftaran")
		return SubmissionIDUnknown, nil
	}
	return id, nil
}

// SubmitErrorMessage: pesan yang ditampilkan ke pendaftar saat submit gagal.
func SubmitErrorMessage(err error) string {
	return apiclient.UserMessage(err, MsgSubmitFailed)
}

// SuccessSnapshot ditampilkan setelah pendaftaran berhasil.
type SuccessSnapshot struct {
	SubmissionID string `json:"submission_id"`
	SubmittedAt  string `json:"submitted_at"`
	ProgramName  string `json:"program_name"`
}

func NewSuccessSnapshot(id string, at time.Time, loc *time.Location, programName string) SuccessSnapshot {
	return SuccessSnapshot{
		SubmissionID: id,
		SubmittedAt:  dbtime.FormatLong(at, loc),
		ProgramName:  programName,
	}
}
