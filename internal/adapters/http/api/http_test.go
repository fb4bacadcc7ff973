package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/binsight/internal/adapters/http/api"
	"github.com/okian/binsight/internal/adapters/kv"
	"github.com/okian/binsight/internal/adapters/repository"
	"github.com/okian/binsight/internal/domain/classify"
	model "github.com/okian/binsight/internal/domain/model"
	"github.com/okian/binsight/internal/domain/stats"
	"github.com/okian/binsight/internal/registrar"
	"github.com/okian/binsight/internal/session"
	"github.com/okian/binsight/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testDeps bundles real components behind the handler dependency
// interface. Promotion covers the whole method set.
type testDeps struct {
	repository.Store
	*session.Controller
	*registrar.Registrar
}

type fixture struct {
	server *httptest.Server
	store  repository.Store
}

// newFixture wires a full service with compressed session timings so
// end-to-end flows finish in milliseconds.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewKVStore(kv.NewMemoryStore())
	sim := classify.New(classify.WithCorrectProbability(1.0))
	controller := session.New(store, sim,
		session.WithRecordingTicks(200),
		session.WithTickInterval(time.Millisecond),
		session.WithSteps([]session.Step{
			{Name: session.StepFrameExtraction, Duration: time.Millisecond},
			{Name: session.StepRemoteAnalysis, Duration: time.Millisecond},
			{Name: session.StepClassification, Duration: time.Millisecond},
		}),
		session.WithResultDelay(50*time.Millisecond),
	)
	qrDir := t.TempDir()
	reg := registrar.New(store, qrDir)

	mux := http.NewServeMux()
	api.NewServer(testDeps{store, controller, reg}, qrDir).Register(context.Background(), mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &fixture{server: srv, store: store}
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	res, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return res
}

func (f *fixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	res, err := http.Get(f.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return res
}

func decodeInto(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func (f *fixture) register(t *testing.T, name string) registrar.Registration {
	t.Helper()
	res := f.postJSON(t, "/users", map[string]string{
		"name":    name,
		"phone":   "5550188",
		"email":   strings.ToLower(name) + "@example.com",
		"address": "9 Sorting Street",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", name, res.StatusCode)
	}
	var out registrar.Registration
	decodeInto(t, res, &out)
	return out
}

// awaitPhase polls GET /session until the given phase is observed.
func (f *fixture) awaitPhase(t *testing.T, phase session.Phase) session.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var snap session.Snapshot
		decodeInto(t, f.get(t, "/session"), &snap)
		if snap.Phase == phase {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("never observed phase %s", phase)
	return session.Snapshot{}
}

func TestUserEndpoints(t *testing.T) {
	Convey("Given a running kiosk service", t, func() {
		f := newFixture(t)

		Convey("registering a user returns the profile and badge url", func() {
			out := f.register(t, "Asha")
			So(out.User.ID, ShouldStartWith, "USR")
			So(out.QRCodeURL, ShouldEqual, "/static/qr/"+out.User.ID+".png")

			Convey("the badge image is served", func() {
				res := f.get(t, out.QRCodeURL)
				defer func() { _ = res.Body.Close() }()
				So(res.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("the user is retrievable by id", func() {
				res := f.get(t, "/users/"+out.User.ID)
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				var user model.User
				decodeInto(t, res, &user)
				So(user.Name, ShouldEqual, "Asha")
			})

			Convey("and appears in the user list", func() {
				res := f.get(t, "/users")
				var users []model.User
				decodeInto(t, res, &users)
				So(users, ShouldHaveLength, 1)
			})
		})

		Convey("registering with a missing field returns 400", func() {
			res := f.postJSON(t, "/users", map[string]string{"name": "NoEmail"})
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("looking up an unknown id returns 404", func() {
			res := f.get(t, "/users/USRUNKNOWN1")
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given a service with a registered user", t, func() {
		f := newFixture(t)
		out := f.register(t, "Biko")

		Convey("the initial session is idle", func() {
			var snap session.Snapshot
			decodeInto(t, f.get(t, "/session"), &snap)
			So(snap.Phase, ShouldEqual, session.PhaseIdle)
		})

		Convey("selecting an unknown user returns 404", func() {
			res := f.postJSON(t, "/session/select", map[string]string{"userId": "USRNOPE0000"})
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("recording without a user returns 409", func() {
			res := f.postJSON(t, "/session/record", nil)
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("a full session flow produces a record and returns to idle", func() {
			res := f.postJSON(t, "/session/select", map[string]string{"userId": out.User.ID})
			var snap session.Snapshot
			decodeInto(t, res, &snap)
			So(snap.Phase, ShouldEqual, session.PhaseAwaitingUser)
			So(snap.User.ID, ShouldEqual, out.User.ID)

			res = f.postJSON(t, "/session/record", nil)
			decodeInto(t, res, &snap)
			So(snap.Phase, ShouldEqual, session.PhaseRecording)

			result := f.awaitPhase(t, session.PhaseResultReady)
			So(result.LastRecord, ShouldNotBeNil)
			So(result.LastRecord.Points, ShouldEqual, 10)

			f.awaitPhase(t, session.PhaseIdle)

			var records []model.Record
			decodeInto(t, f.get(t, "/records"), &records)
			So(records, ShouldHaveLength, 1)
			So(records[0].UserID, ShouldEqual, out.User.ID)
		})

		Convey("stopping mid-recording discards the session", func() {
			f.postJSON(t, "/session/select", map[string]string{"userId": out.User.ID}).Body.Close()
			f.postJSON(t, "/session/record", nil).Body.Close()

			res := f.postJSON(t, "/session/stop", nil)
			var snap session.Snapshot
			decodeInto(t, res, &snap)
			// The countdown is milliseconds long; the stop may race
			// completion. Either outcome leaves a consistent state.
			if snap.Phase == session.PhaseIdle {
				var records []model.Record
				decodeInto(t, f.get(t, "/records"), &records)
				So(records, ShouldBeEmpty)
			} else {
				So(res.StatusCode, ShouldEqual, http.StatusConflict)
			}
		})
	})
}

func TestStatsAndExportEndpoints(t *testing.T) {
	Convey("Given a service with completed sessions", t, func() {
		f := newFixture(t)
		out := f.register(t, "Caro")

		f.postJSON(t, "/session/select", map[string]string{"userId": out.User.ID}).Body.Close()
		f.postJSON(t, "/session/record", nil).Body.Close()
		f.awaitPhase(t, session.PhaseResultReady)
		f.awaitPhase(t, session.PhaseIdle)

		Convey("stats reflect the stored collections", func() {
			var summary model.Summary
			decodeInto(t, f.get(t, "/stats"), &summary)
			So(summary.TotalUsers, ShouldEqual, 1)
			So(summary.CorrectSegregations, ShouldEqual, 1)
			So(summary.RewardsGiven, ShouldEqual, 10)
			So(summary.FinesCollected, ShouldEqual, 0)

			Convey("and match a direct recomputation", func() {
				users, err := f.store.ListUsers(context.Background())
				So(err, ShouldBeNil)
				records, err := f.store.ListRecords(context.Background())
				So(err, ShouldBeNil)
				So(summary, ShouldResemble, stats.Compute(users, records))
			})
		})

		Convey("the CSV export carries the contract header", func() {
			res := f.get(t, "/records/export")
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusOK)
			So(res.Header.Get("Content-Type"), ShouldStartWith, "text/csv")
			So(res.Header.Get("Content-Disposition"), ShouldContainSubstring, "attachment")

			var buf bytes.Buffer
			_, err := buf.ReadFrom(res.Body)
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			So(lines[0], ShouldEqual, "Date,User Name,User ID,Detected Items,Categories,Correctness,Points")
			So(lines, ShouldHaveLength, 2)
			So(lines[1], ShouldContainSubstring, ",Caro,")
		})
	})
}

func TestSettingsEndpoints(t *testing.T) {
	Convey("Given a running kiosk service", t, func() {
		f := newFixture(t)

		Convey("settings are absent before configuration", func() {
			res := f.get(t, "/settings")
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("a connectivity test without credentials returns 409", func() {
			res := f.postJSON(t, "/settings/test", nil)
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("saving credentials", func() {
			res := f.postJSONMethod(t, http.MethodPut, "/settings", model.Credentials{
				AccessKey: "AKIDEXAMPLE",
				SecretKey: "verysecretkey123",
				Region:    "ap-south-1",
			})
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusNoContent)

			Convey("returns them masked on read", func() {
				var creds model.Credentials
				decodeInto(t, f.get(t, "/settings"), &creds)
				So(creds.AccessKey, ShouldEqual, "AKIDEXAMPLE")
				So(creds.SecretKey, ShouldEndWith, "y123")
				So(strings.Count(creds.SecretKey, "*"), ShouldEqual, len("verysecretkey123")-4)
			})

			Convey("and the connectivity test passes", func() {
				res := f.postJSON(t, "/settings/test", nil)
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				var out map[string]string
				decodeInto(t, res, &out)
				So(out["status"], ShouldEqual, "ok")
				So(out["region"], ShouldEqual, "ap-south-1")
			})
		})

		Convey("saving credentials without a secret returns 400", func() {
			res := f.postJSONMethod(t, http.MethodPut, "/settings", model.Credentials{AccessKey: "AKID"})
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func (f *fixture) postJSONMethod(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(method, f.server.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return res
}

func TestKioskAndHealth(t *testing.T) {
	Convey("Given a running kiosk service", t, func() {
		f := newFixture(t)

		Convey("the kiosk page is served", func() {
			res := f.get(t, "/kiosk")
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusOK)
			var buf bytes.Buffer
			_, err := buf.ReadFrom(res.Body)
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "BinSight")
		})

		Convey("healthz serves prometheus metrics", func() {
			res := f.get(t, "/healthz")
			defer func() { _ = res.Body.Close() }()
			So(res.StatusCode, ShouldEqual, http.StatusOK)
			var buf bytes.Buffer
			_, err := buf.ReadFrom(res.Body)
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "binsight_kiosk")
		})
	})
}
