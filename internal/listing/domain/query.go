package domain

// Listing fields the query protocol can reference.
const (
	FieldStatus       = "status"
	FieldBrandID      = "brand_id"
	FieldModelID      = "model_id"
	FieldBodyType     = "body_type"
	FieldEngineType   = "engine_type"
	FieldTransmission = "transmission"
	FieldDriveType    = "drive_type"
	FieldPrice        = "price"
	FieldYear         = "year"
	FieldCity         = "city"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldMileage      = "mileage"
	FieldCreatedAt    = "created_at"
)

type Operator string

const (
	OpEquals Operator = "eq"
	OpIn     Operator = "in"
	OpGTE    Operator = "gte"
	OpLTE    Operator = "lte"
	// OpILike is a case-insensitive substring match.
	OpILike Operator = "ilike"
)

// Predicate is one field constraint. Value is a scalar for eq/gte/lte/ilike
// and a slice ([]int64 or []string) for in.
type Predicate struct {
	Field string
	Op    Operator
	Value any
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Order struct {
	Field     string
	Direction Direction
}

// Query is a backend-neutral listing query: all of Where must hold, and when
// AnyOf is non-empty at least one of its predicates must hold as well.
type Query struct {
	Where  []Predicate
	AnyOf  []Predicate
	Order  Order
	Offset int
	Limit  int
}
