//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sample generates synthetic Superstore-style sales exports for
// demos and tests. The output carries the defects the
// transform stage repairs: exact duplicate rows, sentinel tokens, an
// entirely empty column, currency-formatted amounts and inconsistent
// casing.
package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-superstore/internal/extract"
)

// Headers is the column order of a generated export. Notes is always
// empty.
var Headers = []string{
	"Row ID", "Order ID", "Order Date", "Ship Date", "Ship Mode",
	"Customer ID", "Customer Name", "Segment", "Country", "City", "State",
	"Postal Code", "Region", "Product ID", "Category", "Sub-Category",
	"Product Name", "Sales", "Quantity", "Discount", "Profit", "Notes",
}

// Column positions in Headers.
const (
	colRowID = iota
	colOrderID
	colOrderDate
	colShipDate
	colShipMode
	colCustomerID
	colCustomerName
	colSegment
	colCountry
	colCity
	colState
	colPostalCode
	colRegion
	colProductID
	colCategory
	colSubCategory
	colProductName
	colSales
	colQuantity
	colDiscount
	colProfit
	colNotes
)

// optionalColumns may receive sentinel tokens. Identifiers and the order
// date never do, so every generated row resolves to its dimensions.
var optionalColumns = []int{
	colShipDate, colShipMode, colCustomerName, colSegment, colCity,
	colState, colPostalCode, colRegion, colCategory, colSubCategory,
	colProductName, colProfit,
}

var sentinels = []string{"", "NULL", "N/A", "na", "NaN", "?", "None"}

var (
	segments       = []string{"Consumer", "Corporate", "Home Office"}
	segmentWeights = []int{50, 30, 20}
	regions        = []string{"Central", "East", "South", "West"}
	shipModes      = []string{"Standard Class", "Second Class", "First Class", "Same Day"}
	shipWeights    = []int{60, 20, 15, 5}
	orderPrefixes  = []string{"CA", "US"}
	discounts      = []float64{0, 0, 0, 0, 0.1, 0.2, 0.2, 0.3, 0.4, 0.5, 0.7, 0.8}
)

type category struct {
	name   string
	prefix string
	subs   []string
}

var categories = []category{
	{"Furniture", "FUR", []string{"Bookcases", "Chairs", "Furnishings", "Tables"}},
	{"Office Supplies", "OFF", []string{"Appliances", "Art", "Binders", "Paper", "Storage"}},
	{"Technology", "TEC", []string{"Accessories", "Copiers", "Machines", "Phones"}},
}

// Options configures a Generator.
type Options struct {
	// Rows is the number of distinct order lines. Duplicates are added on
	// top.
	Rows int

	// Seed makes output reproducible. Zero picks a random seed.
	Seed uint64

	// DuplicateRate, MissingRate and CurrencyRate are probabilities. Zero
	// selects the default; a negative value disables the defect.
	DuplicateRate float64
	MissingRate   float64
	CurrencyRate  float64

	// Start and End bound order dates.
	Start time.Time
	End   time.Time

	// Encoding names the output character set, as accepted by
	// extract.Encoding.
	Encoding string

	ProgressInterval int
}

// DefaultOptions returns the default generator configuration.
func DefaultOptions() Options {
	return Options{
		Rows:             1000,
		DuplicateRate:    0.02,
		MissingRate:      0.03,
		CurrencyRate:     0.2,
		Start:            time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
		End:              time.Date(2017, 12, 31, 0, 0, 0, 0, time.UTC),
		ProgressInterval: DefaultProgressInterval,
	}
}

type customer struct {
	id, name, segment string
}

type location struct {
	city, state, zip, region string
}

type product struct {
	id, category, sub, name string
	price                   float64
}

// Generator produces synthetic sales exports.
type Generator struct {
	opts  Options
	faker *Faker

	customers []customer
	locations []location
	products  []product
}

// NewGenerator creates a generator, filling unset options from
// DefaultOptions.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Rows <= 0 {
		opts.Rows = def.Rows
	}
	opts.DuplicateRate = rate(opts.DuplicateRate, def.DuplicateRate)
	opts.MissingRate = rate(opts.MissingRate, def.MissingRate)
	opts.CurrencyRate = rate(opts.CurrencyRate, def.CurrencyRate)
	if opts.Start.IsZero() {
		opts.Start = def.Start
	}
	if opts.End.IsZero() || opts.End.Before(opts.Start) {
		opts.End = opts.Start.AddDate(4, 0, -1)
	}

	f := NewFaker()
	if opts.Seed != 0 {
		f = NewFakerWithSeed(opts.Seed)
	}
	return &Generator{opts: opts, faker: f}
}

func rate(v, def float64) float64 {
	switch {
	case v == 0:
		return def
	case v < 0:
		return 0
	default:
		return min(v, 1)
	}
}

// Records generates the data rows, without the header. Each call draws
// fresh values from the generator's random source.
func (g *Generator) Records() [][]string {
	g.buildPools()

	prog := newProgress(g.opts.Rows, g.opts.ProgressInterval)
	records := make([][]string, 0, g.opts.Rows)

	var prev []string
	for i := 0; i < g.opts.Rows; i++ {
		rec := g.orderLine(i+1, prev)
		prev = rec
		records = append(records, rec)
		prog.update(1)
	}

	dups := int(math.Round(float64(g.opts.Rows) * g.opts.DuplicateRate))
	for i := 0; i < dups; i++ {
		src := Choose(g.faker, records[:g.opts.Rows])
		records = append(records, append([]string(nil), src...))
	}

	for _, rec := range records[:g.opts.Rows] {
		g.soil(rec)
	}
	// Duplicates are soiled with their source row so they stay identical.
	for i := g.opts.Rows; i < len(records); i++ {
		id, _ := strconv.Atoi(records[i][colRowID])
		copy(records[i], records[id-1])
	}

	prog.done()
	return records
}

// WriteCSV writes a header row and the generated records to w.
func (g *Generator) WriteCSV(w io.Writer) error {
	enc, err := extract.Encoding(g.opts.Encoding)
	if err != nil {
		return err
	}

	ew := enc.NewEncoder().Writer(w)
	cw := csv.NewWriter(ew)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(g.Records()); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	if c, ok := ew.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriteFile writes the export to path, replacing any existing file.
func (g *Generator) WriteFile(path string) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return g.WriteCSV(out)
}

func (g *Generator) buildPools() {
	n := g.opts.Rows

	g.customers = g.customers[:0]
	seen := make(map[string]bool)
	for len(g.customers) < max(3, n/8) {
		id := g.faker.Initials() + "-" + g.faker.Digits(5)
		if seen[id] {
			continue
		}
		seen[id] = true
		g.customers = append(g.customers, customer{
			id:      id,
			name:    g.faker.Name(),
			segment: ChooseWeighted(g.faker, segments, segmentWeights),
		})
	}

	g.locations = g.locations[:0]
	for len(g.locations) < max(3, n/15) {
		g.locations = append(g.locations, location{
			city:   g.faker.City(),
			state:  g.faker.State(),
			zip:    g.faker.Zip(),
			region: Choose(g.faker, regions),
		})
	}

	g.products = g.products[:0]
	seen = make(map[string]bool)
	for len(g.products) < max(3, n/6) {
		cat := Choose(g.faker, categories)
		sub := Choose(g.faker, cat.subs)
		id := fmt.Sprintf("%s-%s-1%s", cat.prefix, strings.ToUpper(sub[:2]), g.faker.Digits(7))
		if seen[id] {
			continue
		}
		seen[id] = true
		g.products = append(g.products, product{
			id:       id,
			category: cat.name,
			sub:      sub,
			name:     g.faker.ProductName(),
			price:    g.faker.Price(2, 1500),
		})
	}
}

// orderLine builds one clean row. Roughly a third of lines continue the
// previous order.
func (g *Generator) orderLine(rowID int, prev []string) []string {
	rec := make([]string, len(Headers))
	rec[colRowID] = strconv.Itoa(rowID)
	rec[colCountry] = "United States"

	if prev != nil && g.faker.Chance(0.3) {
		for _, c := range []int{colOrderID, colOrderDate, colShipDate, colShipMode,
			colCustomerID, colCustomerName, colSegment,
			colCity, colState, colPostalCode, colRegion} {
			rec[c] = prev[c]
		}
	} else {
		ordered := g.faker.DateRange(g.opts.Start, g.opts.End).UTC().Truncate(24 * time.Hour)
		shipped := ordered.AddDate(0, 0, g.faker.Int(0, 7))
		rec[colOrderID] = fmt.Sprintf("%s-%d-%s", Choose(g.faker, orderPrefixes), ordered.Year(), g.faker.Digits(6))
		rec[colOrderDate] = ordered.Format("1/2/2006")
		rec[colShipDate] = shipped.Format("1/2/2006")
		rec[colShipMode] = ChooseWeighted(g.faker, shipModes, shipWeights)

		c := Choose(g.faker, g.customers)
		rec[colCustomerID], rec[colCustomerName], rec[colSegment] = c.id, c.name, c.segment

		l := Choose(g.faker, g.locations)
		rec[colCity], rec[colState], rec[colPostalCode], rec[colRegion] = l.city, l.state, l.zip, l.region
	}

	p := Choose(g.faker, g.products)
	rec[colProductID], rec[colCategory], rec[colSubCategory], rec[colProductName] = p.id, p.category, p.sub, p.name

	qty := g.faker.Int(1, 14)
	disc := Choose(g.faker, discounts)
	sales := round(p.price*float64(qty)*(1-disc), 2)
	profit := round(sales*g.faker.Float64(-0.4, 0.45), 4)

	rec[colSales] = strconv.FormatFloat(sales, 'f', -1, 64)
	if g.faker.Chance(g.opts.CurrencyRate) {
		rec[colSales] = Currency(sales)
	}
	rec[colQuantity] = strconv.Itoa(qty)
	rec[colDiscount] = strconv.FormatFloat(disc, 'f', -1, 64)
	rec[colProfit] = strconv.FormatFloat(profit, 'f', -1, 64)
	return rec
}

// soil injects sentinels and casing drift into optional cells.
func (g *Generator) soil(rec []string) {
	for _, c := range optionalColumns {
		if g.faker.Chance(g.opts.MissingRate) {
			rec[c] = Choose(g.faker, sentinels)
		}
	}
	if g.faker.Chance(g.opts.MissingRate) {
		rec[colSegment] = strings.ToLower(rec[colSegment])
	}
	if g.faker.Chance(g.opts.MissingRate) {
		rec[colCity] = strings.ToUpper(rec[colCity])
	}
}

// Currency renders an amount as "$1,234.50".
func Currency(x float64) string {
	s := strconv.FormatFloat(math.Abs(x), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if x < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
