package entities

// Service is a bookable offering. Category holds the slug of the owning
// Category; the link is maintained by the application, not the store.
type Service struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Category    string  `json:"category" db:"category"`
	Price       float64 `json:"price" db:"price"`
	Discount    float64 `json:"discount" db:"discount"`
	Description string  `json:"description" db:"description"`
	Image       string  `json:"image" db:"image"`
	Duration    string  `json:"duration" db:"duration"`
	Rating      float64 `json:"rating" db:"rating"`
}

// ServiceDraft is the admin-supplied input for a new service. Nil numbers
// are treated as missing.
type ServiceDraft struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Duration    string   `json:"duration"`
	Rating      *float64 `json:"rating"`
}

// ServicePatch holds the fields an admin may change on a service
type ServicePatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Duration    *string  `json:"duration"`
	Rating      *float64 `json:"rating"`
}

// Changes returns the set fields keyed by column name
func (p *ServicePatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setString(changes, "name", p.Name)
	setString(changes, "category", p.Category)
	setFloat(changes, "price", p.Price)
	setFloat(changes, "discount", p.Discount)
	setString(changes, "description", p.Description)
	setString(changes, "image", p.Image)
	setString(changes, "duration", p.Duration)
	setFloat(changes, "rating", p.Rating)
	return changes
}

// Category groups services under a URL slug
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Image       string `json:"image" db:"image"`
	Description string `json:"description" db:"description"`
	Icon        string `json:"icon" db:"icon"`
}

// CategoryPatch holds the fields an admin may change on a category
type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// Changes returns the set fields keyed by column name
func (p *CategoryPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setString(changes, "name", p.Name)
	setString(changes, "slug", p.Slug)
	setString(changes, "image", p.Image)
	setString(changes, "description", p.Description)
	setString(changes, "icon", p.Icon)
	return changes
}

// CategoryDeleteResult reports a category removal and its cascade
type CategoryDeleteResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	DeletedServices int    `json:"deletedServices"`
}

// Location is a service area shown on the marketing pages
type Location struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	City  string `json:"city" db:"city"`
	Area  string `json:"area" db:"area"`
	Image string `json:"image" db:"image"`
}

// LocationPatch holds the fields an admin may change on a location
type LocationPatch struct {
	Name  *string `json:"name"`
	City  *string `json:"city"`
	Area  *string `json:"area"`
	Image *string `json:"image"`
}

// Changes returns the set fields keyed by column name
func (p *LocationPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setString(changes, "name", p.Name)
	setString(changes, "city", p.City)
	setString(changes, "area", p.Area)
	setString(changes, "image", p.Image)
	return changes
}

func setFloat(changes map[string]interface{}, column string, value *float64) {
	if value != nil {
		changes[column] = *value
	}
}
