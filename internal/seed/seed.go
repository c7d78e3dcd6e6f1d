// Package seed loads reference data (catalog, opening hours, checklists)
// from a YAML file. Loading is idempotent.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Brands             []Brand                         `yaml:"brands"`
	FuelTypes          []string                        `yaml:"fuel_types"`
	Products           []Product                       `yaml:"products"`
	PartInfos          map[model.PartCategory][]string `yaml:"part_infos"`
	AppointmentDays    []AppointmentDay                `yaml:"appointment_days"`
	ChecklistTemplates []ChecklistTemplate             `yaml:"checklist_templates"`
}

type Brand struct {
	Name   string   `yaml:"name"`
	Models []string `yaml:"models"`
}

type Product struct {
	Code      string            `yaml:"code"`
	Name      string            `yaml:"name"`
	Kind      model.ProductKind `yaml:"kind"`
	ListPrice float64           `yaml:"list_price"`
}

type AppointmentDay struct {
	Day   string `yaml:"day"`
	Name  string `yaml:"name"`
	Slots []Slot `yaml:"slots"`
}

type Slot struct {
	Title    string  `yaml:"title"`
	FromTime float64 `yaml:"from_time"`
	ToTime   float64 `yaml:"to_time"`
}

type ChecklistTemplate struct {
	Name  string `yaml:"name"`
	Items []struct {
		Name        string            `yaml:"name"`
		DisplayType model.DisplayType `yaml:"display_type"`
	} `yaml:"items"`
}

// Summary counts the rows the loader created or updated.
type Summary struct {
	Brands     int
	Models     int
	FuelTypes  int
	Products   int
	PartInfos  int
	Days       int
	Checklists int
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Catalog) validate() error {
	for _, p := range c.Products {
		if strings.TrimSpace(p.Code) == "" {
			return fmt.Errorf("product %q has no code", p.Name)
		}
		switch p.Kind {
		case model.ProductKindPart, model.ProductKindService, model.ProductKindInspection:
		default:
			return fmt.Errorf("product %s: unknown kind %q", p.Code, p.Kind)
		}
	}
	for category := range c.PartInfos {
		if !category.Valid() {
			return fmt.Errorf("unknown part category %q", category)
		}
	}
	for _, d := range c.AppointmentDays {
		for _, s := range d.Slots {
			if s.FromTime < 0 || s.ToTime > 24 || s.FromTime >= s.ToTime {
				return fmt.Errorf("%s slot %q: invalid time range %v-%v", d.Day, s.Title, s.FromTime, s.ToTime)
			}
		}
	}
	return nil
}

// Apply writes the catalog in one transaction. Existing appointment days and
// checklist templates are left untouched.
func Apply(ctx context.Context, repos *repository.Repositories, catalog *Catalog, log zerolog.Logger) (Summary, error) {
	var summary Summary
	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		for _, b := range catalog.Brands {
			if err := tx.Catalog.UpsertBrand(ctx, &model.VehicleBrand{Name: b.Name}); err != nil {
				return fmt.Errorf("brand %s: %w", b.Name, err)
			}
			brand, err := tx.Catalog.FindBrandByName(ctx, b.Name)
			if err != nil {
				return fmt.Errorf("brand %s: %w", b.Name, err)
			}
			summary.Brands++
			for _, name := range b.Models {
				if _, err := tx.Catalog.EnsureModel(ctx, brand.ID, name); err != nil {
					return fmt.Errorf("model %s/%s: %w", b.Name, name, err)
				}
				summary.Models++
			}
		}

		for _, name := range catalog.FuelTypes {
			if err := tx.Catalog.UpsertFuelType(ctx, &model.FuelType{Name: name}); err != nil {
				return fmt.Errorf("fuel type %s: %w", name, err)
			}
			summary.FuelTypes++
		}

		for _, p := range catalog.Products {
			product := &model.Product{Code: p.Code, Name: p.Name, Kind: p.Kind, ListPrice: p.ListPrice}
			if err := tx.Catalog.UpsertProduct(ctx, product); err != nil {
				return fmt.Errorf("product %s: %w", p.Code, err)
			}
			summary.Products++
		}

		for category, names := range catalog.PartInfos {
			for _, name := range names {
				if err := tx.Catalog.EnsurePartInfo(ctx, &model.VehiclePartInfo{Name: name, Type: category}); err != nil {
					return fmt.Errorf("part info %s: %w", name, err)
				}
				summary.PartInfos++
			}
		}

		for _, d := range catalog.AppointmentDays {
			weekday := strings.ToLower(strings.TrimSpace(d.Day))
			_, err := tx.Slots.DayByWeekday(ctx, weekday)
			if err == nil {
				log.Debug().Str("day", weekday).Msg("appointment day exists, skipping")
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			day := &model.AppointmentDay{Name: d.Name, DayOfWeek: weekday}
			for _, s := range d.Slots {
				day.Slots = append(day.Slots, model.AppointmentSlot{Title: s.Title, FromTime: s.FromTime, ToTime: s.ToTime})
			}
			if err := tx.Slots.CreateDay(ctx, day); err != nil {
				return fmt.Errorf("appointment day %s: %w", weekday, err)
			}
			summary.Days++
		}

		for _, c := range catalog.ChecklistTemplates {
			_, err := tx.Templates.FindChecklistByName(ctx, c.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			tpl := &model.ChecklistTemplate{Name: c.Name}
			for i, item := range c.Items {
				tpl.Items = append(tpl.Items, model.ChecklistTemplateItem{
					Sequence:    (i + 1) * 10,
					Name:        item.Name,
					DisplayType: item.DisplayType,
				})
			}
			if err := tx.Templates.CreateChecklist(ctx, tpl); err != nil {
				return fmt.Errorf("checklist %s: %w", c.Name, err)
			}
			summary.Checklists++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	log.Info().
		Int("brands", summary.Brands).
		Int("models", summary.Models).
		Int("products", summary.Products).
		Int("part_infos", summary.PartInfos).
		Int("days", summary.Days).
		Int("checklists", summary.Checklists).
		Msg("seed applied")
	return summary, nil
}
