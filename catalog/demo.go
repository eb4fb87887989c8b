// Copyright 2026 CoolTech Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"fmt"

	"github.com/cooltech/fridgebot/core"
)

// product is one entry of the built-in demo lineup.
type product struct {
	name         string
	model        string
	category     string
	price        string
	capacity     string
	features     string
	dimensions   string
	warranty     string
	colorOptions string
	stock        string
	idealFor     string
}

var demoLineup = []product{
	{
		name:         "FrostFree Compact 150",
		model:        "FF-150-2024",
		category:     "Compact",
		price:        "$279",
		capacity:     "150L",
		features:     "Energy Star rated, reversible door, adjustable shelves, crisper drawer",
		dimensions:   "54cm W x 60cm D x 85cm H",
		warranty:     "1 year comprehensive",
		colorOptions: "White, Silver",
		stock:        "In Stock",
		idealFor:     "Students, small apartments, dorm rooms",
	},
	{
		name:         "ChillMaster 250L Single Door",
		model:        "CM-250-SD",
		category:     "Single Door",
		price:        "$399",
		capacity:     "250L",
		features:     "Direct cool, toughened glass shelves, large vegetable box, stabilizer-free operation",
		dimensions:   "60cm W x 65cm D x 120cm H",
		warranty:     "2 years on product, 5 years on compressor",
		colorOptions: "Red, Blue, Silver, Black",
		stock:        "In Stock",
		idealFor:     "Small families (2-3 members), bachelor pads",
	},
	{
		name:         "CoolPro 340L Double Door",
		model:        "CP-340-DD",
		category:     "Double Door",
		price:        "$649",
		capacity:     "340L (240L fridge + 100L freezer)",
		features:     "Frost-free, inverter compressor, anti-bacterial gasket, LED interior lighting",
		dimensions:   "65cm W x 70cm D x 165cm H",
		warranty:     "3 years comprehensive, 10 years on compressor",
		colorOptions: "Stainless Steel, Black, White Pearl",
		stock:        "In Stock",
		idealFor:     "Medium families (3-4 members)",
	},
	{
		name:         "IceCool 450L French Door",
		model:        "IC-450-FD",
		category:     "French Door",
		price:        "$999",
		capacity:     "450L (320L fridge + 130L freezer)",
		features:     "Multi-airflow cooling, humidity-controlled crispers, ice maker, touch control panel",
		dimensions:   "80cm W x 75cm D x 175cm H",
		warranty:     "5 years comprehensive warranty",
		colorOptions: "Platinum Silver, Charcoal Black",
		stock:        "In Stock",
		idealFor:     "Large families (4-6 members), food enthusiasts",
	},
	{
		name:         "Arctic 550L Side-by-Side",
		model:        "AR-550-SBS",
		category:     "Side-by-Side",
		price:        "$1,299",
		capacity:     "550L (350L fridge + 200L freezer)",
		features:     "Water & ice dispenser, smart diagnostics, door alarm, express freeze function",
		dimensions:   "90cm W x 75cm D x 180cm H",
		warranty:     "5 years comprehensive, 10 years on linear compressor",
		colorOptions: "Stainless Steel, Black Stainless",
		stock:        "In Stock",
		idealFor:     "Large families (5+ members), entertaining frequently",
	},
	{
		name:         "SmartChill 600L IoT Enabled",
		model:        "SC-600-IOT",
		category:     "Smart Refrigerator",
		price:        "$1,599",
		capacity:     "600L (420L fridge + 180L freezer)",
		features:     "WiFi connectivity, internal camera, voice control, auto-reorder, energy monitoring app",
		dimensions:   "92cm W x 78cm D x 185cm H",
		warranty:     "7 years comprehensive warranty",
		colorOptions: "Mirror Finish, Matte Black",
		stock:        "In Stock",
		idealFor:     "Tech-savvy families, smart home integration",
	},
	{
		name:         "EcoFreeze 400L Energy Saver",
		model:        "EF-400-ES",
		category:     "Energy Efficient",
		price:        "$849",
		capacity:     "400L (280L fridge + 120L freezer)",
		features:     "5-star energy rating, solar-compatible inverter, eco mode, low noise operation (38dB)",
		dimensions:   "70cm W x 72cm D x 170cm H",
		warranty:     "4 years comprehensive",
		colorOptions: "Nature Green, Ocean Blue, Cloud White",
		stock:        "In Stock",
		idealFor:     "Eco-conscious families, energy bill savers",
	},
	{
		name:         "MiniChill 90L Bar Refrigerator",
		model:        "MC-90-BR",
		category:     "Mini/Bar",
		price:        "$199",
		capacity:     "90L",
		features:     "Compact design, glass door option, adjustable thermostat, reversible door",
		dimensions:   "48cm W x 52cm D x 75cm H",
		warranty:     "1 year",
		colorOptions: "Black, Stainless Steel",
		stock:        "In Stock",
		idealFor:     "Home bars, offices, guest rooms, beverages",
	},
	{
		name:         "CommercialPro 800L",
		model:        "CP-800-COM",
		category:     "Commercial",
		price:        "$2,299",
		capacity:     "800L",
		features:     "Heavy-duty compressor, stainless steel interior, lockable doors, temperature display",
		dimensions:   "120cm W x 80cm D x 200cm H",
		warranty:     "3 years commercial warranty",
		colorOptions: "Stainless Steel",
		stock:        "Made to Order (2-3 weeks)",
		idealFor:     "Restaurants, cafes, commercial kitchens",
	},
	{
		name:         "UltraFreeze 700L Premium",
		model:        "UF-700-PRM",
		category:     "Premium",
		price:        "$1,899",
		capacity:     "700L (480L fridge + 220L freezer)",
		features:     "Dual cooling system, convertible freezer, wine rack, sabbath mode, child lock",
		dimensions:   "95cm W x 80cm D x 190cm H",
		warranty:     "10 years comprehensive warranty",
		colorOptions: "Champagne Gold, Graphite Grey",
		stock:        "Limited Stock",
		idealFor:     "Luxury homes, large families, premium lifestyle",
	},
}

// Demo returns the built-in refrigerator lineup as catalog records. The
// record ID is the model code; the text is the full product sheet used for
// embedding and answer grounding.
func Demo() []core.CatalogRecord {
	records := make([]core.CatalogRecord, len(demoLineup))
	for i, p := range demoLineup {
		records[i] = core.CatalogRecord{
			ID:   p.model,
			Text: p.sheet(),
			Attributes: map[string]string{
				"name":          p.name,
				"model":         p.model,
				"category":      p.category,
				"price":         p.price,
				"capacity":      p.capacity,
				"features":      p.features,
				"dimensions":    p.dimensions,
				"warranty":      p.warranty,
				"color_options": p.colorOptions,
				"stock":         p.stock,
				"ideal_for":     p.idealFor,
			},
		}
	}
	return records
}

// sheet renders the product as the flat text a shopper would read in the
// printed catalog.
func (p product) sheet() string {
	return fmt.Sprintf(
		"%s (Model: %s, Category: %s). Price: %s. Capacity: %s. "+
			"Key Features: %s. Dimensions: %s. Warranty: %s. "+
			"Available Colors: %s. Availability: %s. Ideal For: %s.",
		p.name, p.model, p.category, p.price, p.capacity,
		p.features, p.dimensions, p.warranty,
		p.colorOptions, p.stock, p.idealFor,
	)
}
