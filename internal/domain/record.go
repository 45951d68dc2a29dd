package domain

// FieldRecord is the structured product-label representation: one optional
// string per target field. A nil member means the field was never populated;
// consumers must read nil as "unknown", not as an error. The JSON form always
// carries exactly the 43 keys, null for absent values.
type FieldRecord struct {
	Title                 *string `json:"Title"`
	Description           *string `json:"Description"`
	Brand                 *string `json:"Brand"`
	BulletPointHeading1   *string `json:"Bullet Point Heading 1"`
	BulletPointShortText1 *string `json:"Bullet Point Short Text 1"`
	BulletPointLongTextA1 *string `json:"Bullet Point Long Text A 1"`
	BulletPointLongTextB1 *string `json:"Bullet Point Long Text B 1"`
	BulletPointLongTextC1 *string `json:"Bullet Point Long Text C 1"`
	BulletPointHeading2   *string `json:"Bullet Point Heading 2"`
	BulletPointShortText2 *string `json:"Bullet Point Short Text 2"`
	BulletPointLongTextA2 *string `json:"Bullet Point Long Text A 2"`
	BulletPointLongTextB2 *string `json:"Bullet Point Long Text B 2"`
	BulletPointLongTextC2 *string `json:"Bullet Point Long Text C 2"`
	Icon1                 *string `json:"Icon - 1"`
	Icon2                 *string `json:"Icon - 2"`
	Icon3                 *string `json:"Icon - 3"`
	Icon4                 *string `json:"Icon - 4"`
	Weight                *string `json:"Weight"`
	Height                *string `json:"Height"`
	Width                 *string `json:"Width"`
	SizeVolume            *string `json:"Size/Volume"`
	IncludedCount         *string `json:"Included Count"`
	ContentType           *string `json:"Content Type/Sub-packages"`
	Ingredients           *string `json:"Ingredients"`
	Instructions          *string `json:"Instructions"`
	ManufacturingDetails  *string `json:"Manufacturing Details"`
	CountryOfOrigin       *string `json:"Country of Origin (COO)"`
	ProductNature         *string `json:"Product Nature"`
	PackageType           *string `json:"Package Type"`
	Category1             *string `json:"Category - 1"`
	Subcategory1          *string `json:"Sub-category 1"`
	Category2             *string `json:"Category - 2"`
	Subcategory2          *string `json:"Sub-category 2"`
	NutritionalFacts      *string `json:"Nutritional Facts"`
	Barcode               *string `json:"Barcode"`
	GSIEAN                *string `json:"GSI EAN"`
	Color                 *string `json:"Color"`
	Industry              *string `json:"Industry"`
	Warnings              *string `json:"Warnings"`
	Price                 *string `json:"Price"`
	UNSPSC                *string `json:"UNSPSC"`
	DateOfManufacturing   *string `json:"Date of Manufacturing"`
	ExpiryDate            *string `json:"Expiry Date"`
}

// FieldNames lists the 43 field names in canonical order.
var FieldNames = []string{
	"Title", "Description", "Brand",
	"Bullet Point Heading 1", "Bullet Point Short Text 1", "Bullet Point Long Text A 1",
	"Bullet Point Long Text B 1", "Bullet Point Long Text C 1",
	"Bullet Point Heading 2", "Bullet Point Short Text 2", "Bullet Point Long Text A 2",
	"Bullet Point Long Text B 2", "Bullet Point Long Text C 2",
	"Icon - 1", "Icon - 2", "Icon - 3", "Icon - 4",
	"Weight", "Height", "Width", "Size/Volume", "Included Count", "Content Type/Sub-packages",
	"Ingredients", "Instructions", "Manufacturing Details", "Country of Origin (COO)",
	"Product Nature", "Package Type", "Category - 1", "Sub-category 1",
	"Category - 2", "Sub-category 2", "Nutritional Facts", "Barcode",
	"GSI EAN", "Color", "Industry", "Warnings", "Price",
	"UNSPSC", "Date of Manufacturing", "Expiry Date",
}

// NewFieldRecord returns a record with every field unset.
func NewFieldRecord() *FieldRecord {
	return &FieldRecord{}
}

// fieldPtr returns the address of the member holding the named field, or nil
// for an unknown name. The switch is deliberately exhaustive over FieldNames.
func (r *FieldRecord) fieldPtr(name string) **string {
	switch name {
	case "Title":
		return &r.Title
	case "Description":
		return &r.Description
	case "Brand":
		return &r.Brand
	case "Bullet Point Heading 1":
		return &r.BulletPointHeading1
	case "Bullet Point Short Text 1":
		return &r.BulletPointShortText1
	case "Bullet Point Long Text A 1":
		return &r.BulletPointLongTextA1
	case "Bullet Point Long Text B 1":
		return &r.BulletPointLongTextB1
	case "Bullet Point Long Text C 1":
		return &r.BulletPointLongTextC1
	case "Bullet Point Heading 2":
		return &r.BulletPointHeading2
	case "Bullet Point Short Text 2":
		return &r.BulletPointShortText2
	case "Bullet Point Long Text A 2":
		return &r.BulletPointLongTextA2
	case "Bullet Point Long Text B 2":
		return &r.BulletPointLongTextB2
	case "Bullet Point Long Text C 2":
		return &r.BulletPointLongTextC2
	case "Icon - 1":
		return &r.Icon1
	case "Icon - 2":
		return &r.Icon2
	case "Icon - 3":
		return &r.Icon3
	case "Icon - 4":
		return &r.Icon4
	case "Weight":
		return &r.Weight
	case "Height":
		return &r.Height
	case "Width":
		return &r.Width
	case "Size/Volume":
		return &r.SizeVolume
	case "Included Count":
		return &r.IncludedCount
	case "Content Type/Sub-packages":
		return &r.ContentType
	case "Ingredients":
		return &r.Ingredients
	case "Instructions":
		return &r.Instructions
	case "Manufacturing Details":
		return &r.ManufacturingDetails
	case "Country of Origin (COO)":
		return &r.CountryOfOrigin
	case "Product Nature":
		return &r.ProductNature
	case "Package Type":
		return &r.PackageType
	case "Category - 1":
		return &r.Category1
	case "Sub-category 1":
		return &r.Subcategory1
	case "Category - 2":
		return &r.Category2
	case "Sub-category 2":
		return &r.Subcategory2
	case "Nutritional Facts":
		return &r.NutritionalFacts
	case "Barcode":
		return &r.Barcode
	case "GSI EAN":
		return &r.GSIEAN
	case "Color":
		return &r.Color
	case "Industry":
		return &r.Industry
	case "Warnings":
		return &r.Warnings
	case "Price":
		return &r.Price
	case "UNSPSC":
		return &r.UNSPSC
	case "Date of Manufacturing":
		return &r.DateOfManufacturing
	case "Expiry Date":
		return &r.ExpiryDate
	}
	return nil
}

// Get returns the value of the named field. ok is false for unknown names.
func (r *FieldRecord) Get(name string) (value *string, ok bool) {
	p := r.fieldPtr(name)
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Set assigns the named field, overwriting any prior value. Returns false for
// unknown names.
func (r *FieldRecord) Set(name, value string) bool {
	p := r.fieldPtr(name)
	if p == nil {
		return false
	}
	*p = &value
	return true
}

// IsSet reports whether the named field holds a value.
func (r *FieldRecord) IsSet(name string) bool {
	v, ok := r.Get(name)
	return ok && v != nil
}

// EmptyFields returns the names of all fields still unset, in canonical order.
func (r *FieldRecord) EmptyFields() []string {
	var empty []string
	for _, name := range FieldNames {
		if !r.IsSet(name) {
			empty = append(empty, name)
		}
	}
	return empty
}

// MergedRecord is a FieldRecord after the merge policy has been applied. It is
// a plain map so an external record may overlay keys the 43-field shape does
// not know about.
type MergedRecord map[string]*string

// AsMerged converts the record to its map form with all 43 keys present.
func (r *FieldRecord) AsMerged() MergedRecord {
	m := make(MergedRecord, len(FieldNames))
	for _, name := range FieldNames {
		p := r.fieldPtr(name)
		m[name] = *p
	}
	return m
}

// Clone returns a deep copy of the merged record.
func (m MergedRecord) Clone() MergedRecord {
	out := make(MergedRecord, len(m))
	for k, v := range m {
		if v == nil {
			out[k] = nil
			continue
		}
		s := *v
		out[k] = &s
	}
	return out
}
