package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

//go:generate mockgen -source=notionapi_interfaces.go -destination=mock_notion/mock_notionapi.go -package=mock_notion
type (
	PageService interface {
		Create(context.Context, *notionapi.PageCreateRequest) (*notionapi.Page, error)
	}

	BlockService interface {
		AppendChildren(context.Context, notionapi.BlockID, *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error)
	}

	CommentService interface {
		Create(context.Context, *notionapi.CommentCreateRequest) (*notionapi.Comment, error)
	}
)
