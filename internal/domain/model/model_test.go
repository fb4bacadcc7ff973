package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/binsight/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	convey.Convey("Given a Record struct", t, func() {
		convey.Convey("When creating a reward record", func() {
			ts := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
			record := model.Record{
				ID:        "RES17159000005ABCD",
				UserID:    "USR12345678",
				UserName:  "Ann",
				Timestamp: ts,
				DetectedItems: []model.DetectedItem{
					{Item: "paper", Category: model.DryWaste, Confidence: 0.9},
				},
				IsCorrect: true,
				Points:    10,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(record.UserID, convey.ShouldEqual, "USR12345678")
				convey.So(record.IsCorrect, convey.ShouldBeTrue)
				convey.So(record.Points, convey.ShouldEqual, 10)
				convey.So(record.DetectedItems, convey.ShouldHaveLength, 1)
				convey.So(record.DetectedItems[0].Category, convey.ShouldEqual, model.DryWaste)
			})

			convey.Convey("Then JSON field names should match the stored shape", func() {
				data, err := json.Marshal(record)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldContainSubstring, `"userId"`)
				convey.So(string(data), convey.ShouldContainSubstring, `"detectedItems"`)
				convey.So(string(data), convey.ShouldContainSubstring, `"isCorrect"`)
			})
		})

		convey.Convey("When creating a zero-value record", func() {
			record := model.Record{}

			convey.Convey("Then it should have default values", func() {
				convey.So(record.ID, convey.ShouldEqual, "")
				convey.So(record.Points, convey.ShouldEqual, 0)
				convey.So(record.IsCorrect, convey.ShouldBeFalse)
				convey.So(record.DetectedItems, convey.ShouldBeNil)
			})
		})
	})
}

func TestWasteCategory(t *testing.T) {
	convey.Convey("Given the category constants", t, func() {
		convey.Convey("Then they should match the kiosk bin labels", func() {
			convey.So(string(model.DryWaste), convey.ShouldEqual, "Dry Waste")
			convey.So(string(model.WetWaste), convey.ShouldEqual, "Wet Waste")
			convey.So(string(model.DomesticHazardousWaste), convey.ShouldEqual, "Domestic Hazardous Waste")
		})
	})
}

func TestCredentials(t *testing.T) {
	convey.Convey("Given remote service credentials", t, func() {
		creds := model.Credentials{
			AccessKey: "AK",
			SecretKey: "SK",
			Region:    "us-east-1",
		}

		convey.Convey("Then optional fields may stay empty", func() {
			convey.So(creds.Endpoint, convey.ShouldEqual, "")
			convey.So(creds.AccessKey, convey.ShouldEqual, "AK")
			convey.So(creds.SecretKey, convey.ShouldEqual, "SK")
		})
	})
}
