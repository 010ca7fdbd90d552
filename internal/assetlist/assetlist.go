// Package assetlist reads the XML list of models to import. Both the host's
// own schema and the MU client's ItemList.xml are accepted:
//
//	<AssetList><Group Index="0" Name="Swords"><Asset Index="1" Name="Kris" Model="Sword01.bmd"/></Group></AssetList>
//	<ItemList><Section Index="0" Name="Swords"><Item Index="1" Name="Kris" ModelFile="Sword01.bmd"/></Section></ItemList>
package assetlist

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"

	"mu-import-host/internal/content"
)

// Asset is one importable model.
type Asset struct {
	Group     int    `json:"group"`
	GroupName string `json:"group_name"`
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Model     string `json:"model"` // e.g. "Sword01.bmd"
}

type xmlList struct {
	Groups   []xmlGroup `xml:"Group"`
	Sections []xmlGroup `xml:"Section"`
}

type xmlGroup struct {
	Index  string     `xml:"Index,attr"`
	Name   string     `xml:"Name,attr"`
	Assets []xmlAsset `xml:"Asset"`
	Items  []xmlAsset `xml:"Item"`
}

type xmlAsset struct {
	Index     string `xml:"Index,attr"`
	Name      string `xml:"Name,attr"`
	Model     string `xml:"Model,attr"`
	ModelFile string `xml:"ModelFile,attr"`
}

// Parse decodes an asset list. Entries without a model or with a
// non-numeric index are skipped.
func Parse(raw []byte) ([]Asset, error) {
	var list xmlList
	if err := xml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("assetlist: parse: %w", err)
	}

	var assets []Asset
	for _, g := range append(list.Groups, list.Sections...) {
		group, err := strconv.Atoi(g.Index)
		if err != nil {
			continue
		}
		for _, a := range append(g.Assets, g.Items...) {
			model := a.Model
			if model == "" {
				model = a.ModelFile
			}
			if model == "" {
				continue
			}
			idx, err := strconv.Atoi(a.Index)
			if err != nil {
				continue
			}
			assets = append(assets, Asset{
				Group:     group,
				GroupName: g.Name,
				Index:     idx,
				Name:      a.Name,
				Model:     model,
			})
		}
	}
	return assets, nil
}

// Load reads an asset list from mounted content.
func Load(m *content.Manager, name string) ([]Asset, error) {
	raw, err := m.Get(name)
	if err != nil {
		return nil, fmt.Errorf("assetlist: read %s: %w", name, err)
	}
	return Parse(raw)
}

// LoadFile reads an asset list from the OS filesystem.
func LoadFile(path string) ([]Asset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assetlist: read %s: %w", path, err)
	}
	return Parse(raw)
}
