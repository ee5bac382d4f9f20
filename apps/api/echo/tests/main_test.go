package tests

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database/dummy"
)

var (
	conf *core.Config
	app  Server

	usrSvc *user.Service
	clsSvc *class.Service
	tskSvc *task.Service
	subSvc *submission.Service
	fbSvc  *feedback.Service
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()

	db, err := dummydb.Open()
	if err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}

	usrRepo := dummydb.NewUserRepository(db)
	clsRepo := dummydb.NewClassRepository(db)
	tskRepo := dummydb.NewTaskRepository(db)
	subRepo := dummydb.NewSubmissionRepository(db)
	fbRepo := dummydb.NewFeedbackRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	appLogger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	clock := core.NewClock()

	usrSvc = user.NewService(usrRepo, clock)
	clsSvc = class.NewService(clsRepo, usrRepo, mailSvc, clock, conf)
	tskSvc = task.NewService(tskRepo, clsRepo, clock, appLogger)
	subSvc = submission.NewService(subRepo, tskRepo, clsRepo, usrRepo, clock)
	fbSvc = feedback.NewService(fbRepo, subRepo, clsRepo, usrRepo, clock)

	app = NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&Deps{
			Conf:          conf,
			Logger:        appLogger,
			UserSvc:       usrSvc,
			ClassSvc:      clsSvc,
			TaskSvc:       tskSvc,
			SubmissionSvc: subSvc,
			FeedbackSvc:   fbSvc,
		},
	)

	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decodeEnvelope(): %v; body = %s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decodeData(): %v; data = %s", err, string(env.Data))
	}
	return env
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) {
	t.Helper()
	if rec.Code != wantCode {
		t.Fatalf("code = %v; wantCode %v; body = %s", rec.Code, wantCode, rec.Body.String())
	}
}
