package repository_test

import (
	"context"
	"testing"
	"time"

	kv "github.com/okian/binsight/internal/adapters/kv"
	repository "github.com/okian/binsight/internal/adapters/repository"
	model "github.com/okian/binsight/internal/domain/model"
	"github.com/okian/binsight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	m.Run()
}

func testUser(id string) model.User {
	return model.User{
		ID:      id,
		Name:    "Ann",
		Phone:   "555",
		Email:   "a@x.com",
		Address: "1 Rd",
	}
}

func testRecord(id string, correct bool) model.Record {
	points := 10
	if !correct {
		points = -5
	}
	return model.Record{
		ID:        id,
		UserID:    "USR1",
		UserName:  "Ann",
		Timestamp: time.Now().UTC(),
		DetectedItems: []model.DetectedItem{
			{Item: "paper", Category: model.DryWaste, Confidence: 0.9},
		},
		IsCorrect: correct,
		Points:    points,
	}
}

func TestKVStore_Users(t *testing.T) {
	Convey("Given a record store over a memory backend", t, func() {
		store := repository.NewKVStore(kv.NewMemoryStore())
		ctx := context.Background()

		Convey("When adding a valid user", func() {
			err := store.AddUser(ctx, testUser("USR1"))

			Convey("Then it should be listed and findable", func() {
				So(err, ShouldBeNil)
				users, err := store.ListUsers(ctx)
				So(err, ShouldBeNil)
				So(users, ShouldHaveLength, 1)

				found, err := store.FindUser(ctx, "USR1")
				So(err, ShouldBeNil)
				So(found.Name, ShouldEqual, "Ann")
			})
		})

		Convey("When adding a user with a missing field", func() {
			u := testUser("USR2")
			u.Email = ""
			err := store.AddUser(ctx, u)

			Convey("Then it should fail validation and store nothing", func() {
				So(err, ShouldWrap, repository.ErrValidation)
				users, listErr := store.ListUsers(ctx)
				So(listErr, ShouldBeNil)
				So(users, ShouldBeEmpty)
			})
		})

		Convey("When looking up an unknown id", func() {
			_, err := store.FindUser(ctx, "missing")

			Convey("Then it should report ErrUserNotFound", func() {
				So(err, ShouldWrap, repository.ErrUserNotFound)
			})
		})
	})
}

func TestKVStore_Records(t *testing.T) {
	Convey("Given a record store over a memory backend", t, func() {
		store := repository.NewKVStore(kv.NewMemoryStore())
		ctx := context.Background()

		Convey("When adding records in sequence", func() {
			So(store.AddRecord(ctx, testRecord("RES1", true)), ShouldBeNil)
			So(store.AddRecord(ctx, testRecord("RES2", false)), ShouldBeNil)
			So(store.AddRecord(ctx, testRecord("RES3", true)), ShouldBeNil)

			records, err := store.ListRecords(ctx)

			Convey("Then listing should be most-recent-first", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				So(records[0].ID, ShouldEqual, "RES3")
				So(records[1].ID, ShouldEqual, "RES2")
				So(records[2].ID, ShouldEqual, "RES1")
			})
		})

		Convey("When adding a record violating the points invariant", func() {
			bad := testRecord("RES4", true)
			bad.Points = -10
			err := store.AddRecord(ctx, bad)

			Convey("Then it should be rejected", func() {
				So(err, ShouldWrap, repository.ErrInvalidRecord)
				records, listErr := store.ListRecords(ctx)
				So(listErr, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})
	})
}

func TestKVStore_CorruptState(t *testing.T) {
	Convey("Given a backend holding unparsable JSON", t, func() {
		backend := kv.NewMemoryStore()
		ctx := context.Background()
		So(backend.Set(ctx, "waste_results", "{not json"), ShouldBeNil)
		So(backend.Set(ctx, "waste_users", "[broken"), ShouldBeNil)

		store := repository.NewKVStore(backend)

		Convey("When reading the collections", func() {
			records, rErr := store.ListRecords(ctx)
			users, uErr := store.ListUsers(ctx)

			Convey("Then both should read as empty", func() {
				So(rErr, ShouldBeNil)
				So(records, ShouldBeEmpty)
				So(uErr, ShouldBeNil)
				So(users, ShouldBeEmpty)
			})
		})

		Convey("When writing after the corruption", func() {
			So(store.AddRecord(ctx, testRecord("RES1", true)), ShouldBeNil)

			records, err := store.ListRecords(ctx)

			Convey("Then the store should recover with the new record", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
			})
		})
	})
}

func TestKVStore_Credentials(t *testing.T) {
	Convey("Given a record store over a memory backend", t, func() {
		store := repository.NewKVStore(kv.NewMemoryStore())
		ctx := context.Background()

		Convey("When no credentials were saved", func() {
			_, err := store.Credentials(ctx)

			Convey("Then it should report ErrCredentialsNotSet", func() {
				So(err, ShouldWrap, repository.ErrCredentialsNotSet)
			})
		})

		Convey("When saving credentials without a secret key", func() {
			err := store.SaveCredentials(ctx, model.Credentials{AccessKey: "AK"})

			Convey("Then it should fail validation", func() {
				So(err, ShouldWrap, repository.ErrValidation)
			})
		})

		Convey("When saving complete credentials", func() {
			err := store.SaveCredentials(ctx, model.Credentials{
				AccessKey: "AK",
				SecretKey: "SK",
				Region:    "us-east-1",
			})

			Convey("Then they should round-trip", func() {
				So(err, ShouldBeNil)
				creds, getErr := store.Credentials(ctx)
				So(getErr, ShouldBeNil)
				So(creds.AccessKey, ShouldEqual, "AK")
				So(creds.Region, ShouldEqual, "us-east-1")
			})
		})
	})
}
