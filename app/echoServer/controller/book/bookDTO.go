package book

// Book create/update come in as multipart forms: the cover image and the
// document are file parts, everything else is form values.
type UpsertBookReq struct {
	Title       string `form:"title" validate:"required"`
	Author      string `form:"author" validate:"required"`
	Description string `form:"description"`
	Category    string `form:"category" validate:"required"`
	Price       string `form:"price" validate:"required"`
	Stock       int64  `form:"stock" validate:"gte=0"`
	Condition   string `form:"condition"`
}
