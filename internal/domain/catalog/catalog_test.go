package catalog_test

import (
	"testing"

	catalog "github.com/okian/binsight/internal/domain/catalog"
	model "github.com/okian/binsight/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	convey.Convey("Given the detection catalog", t, func() {
		templates := catalog.Templates()

		convey.Convey("Then it should hold eight templates", func() {
			convey.So(templates, convey.ShouldHaveLength, 8)
		})

		convey.Convey("Then every template should carry a known category", func() {
			known := map[model.WasteCategory]bool{
				model.DryWaste:               true,
				model.WetWaste:               true,
				model.DomesticHazardousWaste: true,
			}
			for _, tpl := range templates {
				convey.So(known[tpl.Category], convey.ShouldBeTrue)
				convey.So(tpl.Item, convey.ShouldNotBeEmpty)
				convey.So(tpl.Confidence, convey.ShouldBeGreaterThan, 0)
				convey.So(tpl.Confidence, convey.ShouldBeLessThanOrEqualTo, 1)
			}
		})

		convey.Convey("When mutating the returned slice", func() {
			templates[0].Item = "garbage"

			convey.Convey("Then the catalog itself should be unchanged", func() {
				convey.So(catalog.Templates()[0].Item, convey.ShouldEqual, "plastic bottle")
			})
		})
	})
}

func TestCategories(t *testing.T) {
	convey.Convey("Given the category list", t, func() {
		cats := catalog.Categories()

		convey.Convey("Then it should list the three bins in display order", func() {
			convey.So(cats, convey.ShouldHaveLength, 3)
			convey.So(cats[0], convey.ShouldEqual, model.DryWaste)
			convey.So(cats[1], convey.ShouldEqual, model.WetWaste)
			convey.So(cats[2], convey.ShouldEqual, model.DomesticHazardousWaste)
		})
	})
}
