package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/halldor/geofind/pkg/geofind"
)

// extractionTemplate describes where to look for fields on a form, using
// anchor phrases instead of fixed coordinates so the template survives
// layout shifts between scans.
type extractionTemplate struct {
	Page       int                 `yaml:"page"`
	Sections   []templateSection   `yaml:"sections"`
	Selections []templateSelection `yaml:"selections"`
}

// templateSection is an area bounded vertically by two anchors; the form
// fields inside it get re-keyed with the section prefix.
type templateSection struct {
	Prefix string         `yaml:"prefix"`
	Top    templateAnchor `yaml:"top"`
	Bottom templateAnchor `yaml:"bottom"`
}

// templateSelection names the checkboxes on an anchor phrase's visual line
type templateSelection struct {
	Name   string  `yaml:"name"`
	Phrase string  `yaml:"phrase"`
	Margin float64 `yaml:"margin"`
}

// templateAnchor resolves to one vertical coordinate: a box edge of an
// anchor phrase's occurrence on the page.
type templateAnchor struct {
	Phrase          string  `yaml:"phrase"`
	Edge            string  `yaml:"edge"` // xmin, xmax, ymin, ymax
	MinTextDistance float64 `yaml:"min_text_distance"`
}

func loadTemplate(path string) (*extractionTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tpl extractionTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, err
	}
	if tpl.Page == 0 {
		tpl.Page = 1
	}
	return &tpl, nil
}

func (a templateAnchor) coordinate() (geofind.PhraseCoordinate, error) {
	var edge geofind.Coordinate
	switch strings.ToLower(a.Edge) {
	case "xmin":
		edge = geofind.CoordinateXMin
	case "xmax":
		edge = geofind.CoordinateXMax
	case "ymin":
		edge = geofind.CoordinateYMin
	case "ymax":
		edge = geofind.CoordinateYMax
	default:
		return geofind.PhraseCoordinate{}, fmt.Errorf("anchor %q: unknown edge %q", a.Phrase, a.Edge)
	}
	return geofind.PhraseCoordinate{
		Phrase:          a.Phrase,
		Coordinate:      edge,
		MinTextDistance: a.MinTextDistance,
	}, nil
}

// runTemplate applies an extraction template: it carves out each section's
// area, re-keys the form fields inside with the section prefix, and names
// the checkboxes around each selection anchor. The index is refreshed at the
// end so the appended virtual keys are visible to the output writers.
func runTemplate(ix *geofind.Index, tpl *extractionTemplate) error {
	width := float64(ix.Width())

	for _, section := range tpl.Sections {
		topCoord, err := section.Top.coordinate()
		if err != nil {
			return err
		}
		bottomCoord, err := section.Bottom.coordinate()
		if err != nil {
			return err
		}
		topValues, err := ix.CoordinateValues(tpl.Page, []geofind.PhraseCoordinate{topCoord})
		if err != nil {
			return fmt.Errorf("section %s: %w", section.Prefix, err)
		}
		bottomValues, err := ix.CoordinateValues(tpl.Page, []geofind.PhraseCoordinate{bottomCoord})
		if err != nil {
			return fmt.Errorf("section %s: %w", section.Prefix, err)
		}

		area, err := geofind.NewArea(
			geofind.Point{X: 0, Y: float64(topValues[0])},
			geofind.Point{X: width, Y: float64(bottomValues[0])},
			tpl.Page,
		)
		if err != nil {
			return fmt.Errorf("section %s: %w", section.Prefix, err)
		}

		for _, kv := range ix.FormFieldsIn(area) {
			keyBlock, err := ix.BlockByID(kv.Key.ID)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("%s_%s", section.Prefix, kv.Key.Text)
			if _, err := ix.AddVirtualKey(name, keyBlock, tpl.Page); err != nil {
				return err
			}
		}
	}

	for _, sel := range tpl.Selections {
		matches := ix.FindPhrase(tpl.Page, sel.Phrase, geofind.DefaultMinTextDistance)
		if len(matches) == 0 {
			return fmt.Errorf("selection %s: no match for anchor phrase %q", sel.Name, sel.Phrase)
		}
		anchor := matches[0]
		margin := sel.Margin
		if margin == 0 {
			margin = 50
		}
		top := float64(anchor.YMin) - margin
		if top < 0 {
			top = 0
		}
		area, err := geofind.NewArea(
			geofind.Point{X: 0, Y: top},
			geofind.Point{X: width, Y: float64(anchor.YMax) + margin},
			tpl.Page,
		)
		if err != nil {
			return fmt.Errorf("selection %s: %w", sel.Name, err)
		}

		for _, se := range ix.SelectionValuesIn(area) {
			keyBlock, err := ix.BlockByID(se.Key.ID)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("%s->%s", sel.Name, strings.ToUpper(se.Key.OriginalText))
			if _, err := ix.AddVirtualKey(name, keyBlock, tpl.Page); err != nil {
				return err
			}
		}
	}

	return ix.Refresh()
}
