package scene

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/df07/raytrace-testing/pkg/transferfunction"
)

// FixtureInfo describes one fixture kind and the parameters it accepts
type FixtureInfo struct {
	ID          string   `json:"id"`          // Kind identifier accepted by NewFixture
	DisplayName string   `json:"displayName"` // UI display name
	Description string   `json:"description"`
	Group       string   `json:"group"`
	Params      []string `json:"params"` // Accepted parameter keys
}

// FixtureGroup collects related fixture kinds
type FixtureGroup struct {
	Name     string        `json:"name"`
	Fixtures []FixtureInfo `json:"fixtures"`
}

// CatalogResponse is the complete grouped listing of fixture kinds
type CatalogResponse struct {
	Groups []FixtureGroup `json:"groups"`
}

type fixtureKind struct {
	info  FixtureInfo
	build func(base Base, p params) (Fixture, error)
}

var kinds = []fixtureKind{
	{
		info: FixtureInfo{ID: "texture2d", Description: "Every texture format on its own quad", Group: "Textures",
			Params: []string{"filter", "mipMapBias", "lightSet", "useTexcoords"}},
		build: func(base Base, p params) (Fixture, error) {
			f := Texture2D{Base: base, Filter: p.str("filter")}
			var err error
			if f.MipMapBias, err = p.float("mipMapBias"); err != nil {
				return nil, err
			}
			if f.LightSet, err = p.bool("lightSet"); err != nil {
				return nil, err
			}
			if f.UseTexcoords, err = p.bool("useTexcoords"); err != nil {
				return nil, err
			}
			return f, nil
		},
	},
	{
		info: FixtureInfo{ID: "texture2d-transform", Description: "Checkerboard or image through a texture coordinate transform", Group: "Textures",
			Params: []string{"transform", "image"}},
		build: func(base Base, p params) (Fixture, error) {
			return Texture2DTransform{Base: base, Transform: p.str("transform"), Image: p.str("image")}, nil
		},
	},
	{
		info: FixtureInfo{ID: "texture2d-wrap-mode", Description: "Repeat, mirrored repeat and clamp to edge wrapping", Group: "Textures",
			Params: []string{"mipMapBias", "filter"}},
		build: func(base Base, p params) (Fixture, error) {
			bias, err := p.float("mipMapBias")
			if err != nil {
				return nil, err
			}
			return Texture2DWrapMode{Base: base, MipMapBias: bias, Filter: p.str("filter")}, nil
		},
	},
	{
		info: FixtureInfo{ID: "texture2d-mip-mapping", Description: "Receding checkerboard ground plane", Group: "Textures",
			Params: []string{"renderer", "camera", "filter", "mipMapBias", "scale", "stereo"}},
		build: func(base Base, p params) (Fixture, error) {
			f := Texture2DMipMapping{Base: base, Renderer: p.str("renderer"), Camera: p.str("camera"),
				Filter: p.str("filter"), Stereo: p.str("stereo")}
			var err error
			if f.MipMapBias, err = p.float("mipMapBias"); err != nil {
				return nil, err
			}
			if f.Scale, err = p.float("scale"); err != nil {
				return nil, err
			}
			return f, nil
		},
	},
	{
		info: FixtureInfo{ID: "renderer-material-list", Description: "One sphere per material", Group: "Materials",
			Params: []string{"renderer"}},
		build: func(base Base, p params) (Fixture, error) {
			return RendererMaterialList{Base: base, Renderer: p.str("renderer")}, nil
		},
	},
	{
		info: FixtureInfo{ID: "pt-background-refraction", Description: "Glass sphere in front of a hidden environment", Group: "Materials",
			Params: []string{"enabled"}},
		build: func(base Base, p params) (Fixture, error) {
			enabled, err := p.bool("enabled")
			if err != nil {
				return nil, err
			}
			return PTBackgroundRefraction{Base: base, Enabled: enabled}, nil
		},
	},
	{
		info: FixtureInfo{ID: "transfer-function", Description: "Scalar fields through a registered testing transfer function", Group: "Transfer Functions",
			Params: []string{"tag"}},
		build: func(base Base, p params) (Fixture, error) {
			return TransferFunctionScene{Base: base, Tag: p.str("tag")}, nil
		},
	},
}

func init() {
	for i := range kinds {
		kinds[i].info.DisplayName = titleCase(kinds[i].info.ID)
	}
}

// NewFixture creates the fixture of the given kind from string parameters.
// Missing parameters take their zero value; unknown keys are rejected.
func NewFixture(kind string, base Base, raw map[string]string) (Fixture, error) {
	for _, k := range kinds {
		if k.info.ID != kind {
			continue
		}
		p := params(raw)
		if err := p.check(k.info.Params); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", kind, err)
		}
		f, err := k.build(base, p)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", kind, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: fixture kind %q", ErrUnknownParameter, kind)
}

// ListFixtures returns every fixture kind in catalog order
func ListFixtures() []FixtureInfo {
	infos := make([]FixtureInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = k.info
	}
	return infos
}

// ListAllFixtures returns the fixture kinds grouped by category, groups sorted by name
func ListAllFixtures() CatalogResponse {
	groupMap := make(map[string][]FixtureInfo)
	for _, info := range ListFixtures() {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	groupNames := make([]string, 0, len(groupMap))
	for name := range groupMap {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	var response CatalogResponse
	for _, name := range groupNames {
		response.Groups = append(response.Groups, FixtureGroup{Name: name, Fixtures: groupMap[name]})
	}
	return response
}

// Variants returns the standard parameter sweep of every fixture kind
func Variants(base Base) []Fixture {
	var fixtures []Fixture
	filters := []string{"bilinear", "nearest"}

	for _, filter := range filters {
		for _, bias := range []float64{0, 1} {
			for _, lightSet := range []bool{false, true} {
				for _, texcoords := range []bool{false, true} {
					fixtures = append(fixtures, Texture2D{Base: base, Filter: filter, MipMapBias: bias, LightSet: lightSet, UseTexcoords: texcoords})
				}
			}
		}
	}
	for _, transform := range []string{"identity", "translate", "rotate", "scale"} {
		fixtures = append(fixtures, Texture2DTransform{Base: base, Transform: transform})
	}
	for _, bias := range []float64{0, 1} {
		for _, filter := range filters {
			fixtures = append(fixtures, Texture2DWrapMode{Base: base, MipMapBias: bias, Filter: filter})
		}
	}
	for _, camera := range []string{"perspective", "orthographic", "panoramic"} {
		for _, filter := range filters {
			fixtures = append(fixtures, Texture2DMipMapping{Base: base, Renderer: "scivis", Camera: camera, Filter: filter, Scale: 4})
		}
	}
	fixtures = append(fixtures,
		Texture2DMipMapping{Base: base, Renderer: "pathtracer", Camera: "perspective", Filter: "bilinear", MipMapBias: 2, Scale: 4},
		Texture2DMipMapping{Base: base, Renderer: "scivis", Camera: "perspective", Filter: "bilinear", Scale: 4, Stereo: "side-by-side"},
		Texture2DMipMapping{Base: base, Renderer: "scivis", Camera: "panoramic", Filter: "bilinear", Scale: 4, Stereo: "top-bottom"},
	)
	for _, renderer := range []string{"ao", "pathtracer", "scivis"} {
		fixtures = append(fixtures, RendererMaterialList{Base: base, Renderer: renderer})
	}
	for _, enabled := range []bool{false, true} {
		fixtures = append(fixtures, PTBackgroundRefraction{Base: base, Enabled: enabled})
	}
	for _, tag := range transferfunction.Tags() {
		fixtures = append(fixtures, TransferFunctionScene{Base: base, Tag: tag})
	}
	return fixtures
}

// params holds raw string fixture parameters
type params map[string]string

func (p params) check(allowed []string) error {
	for key := range p {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q (accepted: %s)", ErrUnknownParameter, key, strings.Join(allowed, ", "))
		}
	}
	return nil
}

func (p params) str(key string) string { return p[key] }

func (p params) float(key string) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s: %w", key, err)
	}
	return v, nil
}

func (p params) bool(key string) (bool, error) {
	raw, ok := p[key]
	if !ok || raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parameter %s: %w", key, err)
	}
	return v, nil
}

// titleCase converts an identifier to title case
// e.g., "texture2d-wrap-mode" -> "Texture2d Wrap Mode"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
