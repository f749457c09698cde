package notion

// Property names of the menu database.
const (
	PropTitle       = "Title"
	PropWeekStart   = "Week Start"
	PropGeneratedAt = "Generated At"
	PropStatus      = "Status"
	PropIntakeUsed  = "Intake Used"
)

// RichText is one rich text object.
type RichText struct {
	Type        string       `json:"type"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
}

// TextContent is the payload of a text rich text object.
type TextContent struct {
	Content string `json:"content"`
}

// Annotations holds rich text styling. Only bold is used.
type Annotations struct {
	Bold bool `json:"bold"`
}

// RichTextBlock is the body shared by heading, paragraph and list item blocks.
type RichTextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// Block is a child block of a page.
type Block struct {
	Object           string         `json:"object"`
	Type             string         `json:"type"`
	Heading2         *RichTextBlock `json:"heading_2,omitempty"`
	Heading3         *RichTextBlock `json:"heading_3,omitempty"`
	Paragraph        *RichTextBlock `json:"paragraph,omitempty"`
	BulletedListItem *RichTextBlock `json:"bulleted_list_item,omitempty"`
	Divider          *struct{}      `json:"divider,omitempty"`
}

// DateValue is the value of a date property.
type DateValue struct {
	Start string `json:"start"`
}

// SelectValue is the value of a select property.
type SelectValue struct {
	Name string `json:"name"`
}

// PropertyValue is a page property. Exactly one field is set on requests.
type PropertyValue struct {
	Type     string       `json:"type,omitempty"`
	Title    []RichText   `json:"title,omitempty"`
	Date     *DateValue   `json:"date,omitempty"`
	Select   *SelectValue `json:"select,omitempty"`
	Checkbox *bool        `json:"checkbox,omitempty"`
}

// Parent identifies the database a page belongs to.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// Page is a database page as returned by the API.
type Page struct {
	Object     string                   `json:"object"`
	ID         string                   `json:"id"`
	Archived   bool                     `json:"archived"`
	URL        string                   `json:"url,omitempty"`
	Properties map[string]PropertyValue `json:"properties"`
}

// Filter is a database query filter. Compound filters use And.
type Filter struct {
	Property string        `json:"property,omitempty"`
	Date     *DateFilter   `json:"date,omitempty"`
	Select   *SelectFilter `json:"select,omitempty"`
	And      []Filter      `json:"and,omitempty"`
}

// DateFilter matches date properties.
type DateFilter struct {
	Equals string `json:"equals,omitempty"`
	Before string `json:"before,omitempty"`
}

// SelectFilter matches select properties.
type SelectFilter struct {
	Equals       string `json:"equals,omitempty"`
	DoesNotEqual string `json:"does_not_equal,omitempty"`
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// CreatePageRequest is the body of a page creation.
type CreatePageRequest struct {
	Parent     Parent                   `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
	Children   []Block                  `json:"children,omitempty"`
}

// UpdatePageRequest is the body of a page update.
type UpdatePageRequest struct {
	Properties map[string]PropertyValue `json:"properties,omitempty"`
	Archived   *bool                    `json:"archived,omitempty"`
}

type appendChildrenRequest struct {
	Children []Block `json:"children"`
}

type errorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
