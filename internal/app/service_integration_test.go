package service_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/feeshock/internal/adapters/export"
	service "github.com/okian/feeshock/internal/app"
	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/sector"
	. "github.com/smartystreets/goconvey/convey"
)

func seedData(t *testing.T, dir string) {
	t.Helper()
	writeInput(t, dir, "h1b_datahubexport-2019.csv", strings.Join([]string{
		"Employer,Initial Approval,Initial Denial,Continuing Approval,Continuing Denial,NAICS",
		"Google LLC,400,50,400,50,51",
		"Acme Consulting,100,0,0,0,54",
		"nan,5,0,0,0,",
	}, "\n"))
	writeInput(t, dir, "h1b_datahubexport-2021.csv", strings.Join([]string{
		"Employer,Initial Approval,Initial Denial,Continuing Approval,Continuing Denial,NAICS",
		`"GOOGLE, LLC.",500,0,400,100,51`,
		"Big Bank,50,25,25,0,522110",
	}, "\n"))
	writeInput(t, dir, "opt_employers_scraped.csv", "Employer_std\nGOOGLE LLC\nLISTED ONLY INC\n")
	writeInput(t, dir, "cpt_employers_day1cptuniversities_bs4.csv", "Company,CPT Friendly\nGoogle LLC,✓\nAcme Consulting,\n")
	writeInput(t, dir, "fortune500.csv", "Rank,Company\n1,Big Bank\n")
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return rows
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a data directory with exports and employer lists", t, func() {
		cfg := newConfig(t)
		cfg.Fortune500Path = "fortune500.csv"
		seedData(t, cfg.DataDir)

		fixed := time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC)
		svc := service.New(
			service.WithConfig(cfg),
			service.WithClock(func() time.Time { return fixed }),
		)
		ctx := context.Background()

		Convey("When running the pipeline", func() {
			res, err := svc.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then every input should be accounted for", func() {
				So(len(res.Files), ShouldEqual, 5)
				So(res.Petitions, ShouldEqual, 4)
				So(res.Skipped.Total(), ShouldEqual, 1)
				So(res.Employers, ShouldEqual, 3)
				So(res.ListingOnly, ShouldEqual, 1)
				So(res.RunID, ShouldNotBeEmpty)
			})

			Convey("Then the year summary should be gap-free and projected", func() {
				So(len(res.Years), ShouldEqual, 3)
				So(res.Years[0].Applications, ShouldEqual, 1000)
				So(res.Years[0].ProjectedApplications, ShouldAlmostEqual, 100, 1e-9)
				So(res.Years[1].Applications, ShouldEqual, 0)
				So(res.Years[2].Applications, ShouldEqual, 1100)
				So(res.Impact(), ShouldEqual, elasticity.ImpactSevere)
			})

			Convey("Then the merged profiles should carry flags and sectors", func() {
				google, err := svc.Employer(ctx, "google llc")
				So(err, ShouldBeNil)
				So(google.Rank, ShouldEqual, 1)
				So(google.FlexibilityIndex, ShouldEqual, 2)
				So(google.TotalApprovals, ShouldEqual, 1700)
				So(google.Sector, ShouldEqual, sector.Technology)

				bank, err := svc.Employer(ctx, "BIG BANK")
				So(err, ShouldBeNil)
				So(bank.IsFortune500, ShouldBeTrue)
				So(bank.FlexibilityIndex, ShouldEqual, 0)
				So(bank.Sector, ShouldEqual, sector.Finance)
			})

			Convey("Then the outputs should be on disk", func() {
				years := readRows(t, filepath.Join(cfg.OutputDir, "year_summary.csv"))
				So(len(years), ShouldEqual, 4)
				So(years[1][0], ShouldEqual, "2019")

				sectors := readRows(t, filepath.Join(cfg.OutputDir, "sector_summary.csv"))
				So(len(sectors), ShouldEqual, 4)
				So(sectors[1][0], ShouldEqual, sector.Technology)

				flex := readRows(t, filepath.Join(cfg.OutputDir, "flexibility_projection.csv"))
				So(len(flex), ShouldBeGreaterThan, 1)

				So(len(res.Outputs), ShouldEqual, 4)
			})

			Convey("Then the manifest should describe the run", func() {
				raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, "run_manifest.yaml"))
				So(err, ShouldBeNil)
				var m export.Manifest
				So(yaml.Unmarshal(raw, &m), ShouldBeNil)
				So(m.RunID, ShouldEqual, res.RunID)
				So(m.Counts.Employers, ShouldEqual, 3)
				So(m.Impact, ShouldEqual, "severe")
				So(len(m.Inputs), ShouldEqual, 5)
				So(m.StartedAt.Equal(fixed), ShouldBeTrue)
			})

			Convey("Then the read API methods should serve the run", func() {
				sectors, err := svc.Sectors(ctx)
				So(err, ShouldBeNil)
				So(len(sectors), ShouldEqual, 3)

				top, err := svc.TopEmployers(ctx, 2)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)

				params, err := svc.Params(ctx)
				So(err, ShouldBeNil)
				So(params, ShouldResemble, elasticity.NewParams())

				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["lastRunId"], ShouldEqual, res.RunID)
				So(stats["employers"], ShouldEqual, 3)
			})

			Convey("Then a simulation should leave the stored run alone", func() {
				sim, err := svc.Simulate(ctx, elasticity.NewParams(elasticity.WithTargetFee(25_000)))
				So(err, ShouldBeNil)
				So(sim[0].ProjectedApplications, ShouldEqual, 1000)

				years, _ := svc.Years(ctx)
				So(years[0].ProjectedApplications, ShouldAlmostEqual, 100, 1e-9)
			})
		})

		Convey("When listing-only employers are included", func() {
			cfg.IncludeListingOnly = true
			cfg.FlexibilityPath = ""
			cfg.ManifestPath = ""
			res, err := svc.Run(ctx)

			Convey("Then they should join the profiles and optional outputs be skipped", func() {
				So(err, ShouldBeNil)
				So(res.Employers, ShouldEqual, 4)
				So(len(res.Outputs), ShouldEqual, 2)
				_, err := svc.Employer(ctx, "Listed Only Inc")
				So(err, ShouldBeNil)
			})
		})
	})
}
