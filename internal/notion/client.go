package notion

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jomei/notionapi"
	"github.com/takak2166/mailassist/internal/logger"
	"github.com/takak2166/mailassist/internal/models"
)

const (
	// maxChildren is the number of blocks Notion accepts per request
	maxChildren = 100
	// maxTextLength is the content limit of a single rich text object
	maxTextLength = 2000
)

// ErrMissingTaskID is returned when Notion answers a create call without a page ID
var ErrMissingTaskID = errors.New("notion response did not contain a page id")

var numberedLineRe = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)

// Properties names the database columns tasks are written to
type Properties struct {
	Title    string `yaml:"title"`
	Due      string `yaml:"due"`
	Priority string `yaml:"priority"`
	Assignee string `yaml:"assignee"`
}

// DefaultProperties are used for columns left unset
var DefaultProperties = Properties{
	Title:    "Name",
	Due:      "Due",
	Priority: "Priority",
	Assignee: "Assignee",
}

func (p Properties) withDefaults() Properties {
	if p.Title == "" {
		p.Title = DefaultProperties.Title
	}
	if p.Due == "" {
		p.Due = DefaultProperties.Due
	}
	if p.Priority == "" {
		p.Priority = DefaultProperties.Priority
	}
	if p.Assignee == "" {
		p.Assignee = DefaultProperties.Assignee
	}
	return p
}

// Client creates tasks as pages in a Notion database
type Client struct {
	client     NotionClient
	databaseID notionapi.DatabaseID
	props      Properties
}

// New creates a new Notion client
func New(apiKey, databaseID string, props Properties) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NOTION_API_KEY is not set")
	}
	if databaseID == "" {
		return nil, fmt.Errorf("NOTION_DATABASE_ID is not set")
	}

	notionClient := notionapi.NewClient(notionapi.Token(apiKey))
	return &Client{
		client:     newNotionClientAdapter(notionClient),
		databaseID: notionapi.DatabaseID(databaseID),
		props:      props.withDefaults(),
	}, nil
}

// CreateTask creates a database page for req and returns its ID
func (c *Client) CreateTask(ctx context.Context, req models.TaskRequest) (string, error) {
	logger.Debug("Creating Notion task", map[string]interface{}{
		"name":     req.Name,
		"assignee": req.Assignee,
		"priority": req.Priority,
	})

	blocks := c.convertNotesToBlocks(req.Notes)
	first, rest := splitBlocks(blocks)

	page, err := c.client.Page().Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       "database_id",
			DatabaseID: c.databaseID,
		},
		Properties: c.taskProperties(req),
		Children:   first,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create task page: %w", err)
	}
	if page == nil || page.ID == "" {
		return "", ErrMissingTaskID
	}
	taskID := string(page.ID)

	if err := c.appendBlocks(ctx, taskID, rest); err != nil {
		return taskID, err
	}

	logger.Info("Successfully created Notion task", map[string]interface{}{
		"name": req.Name,
		"id":   taskID,
	})
	return taskID, nil
}

// CreateComment adds text to the task's discussion
func (c *Client) CreateComment(ctx context.Context, taskID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Debug("Skipping empty Notion comment", map[string]interface{}{
			"task": taskID,
		})
		return nil
	}

	_, err := c.client.Comment().Create(ctx, &notionapi.CommentCreateRequest{
		Parent: notionapi.Parent{
			Type:   "page_id",
			PageID: notionapi.PageID(taskID),
		},
		RichText: richText(text),
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// CreateSubtask creates a child page named name under the task page
func (c *Client) CreateSubtask(ctx context.Context, taskID, name string) (string, error) {
	page, err := c.client.Page().Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   "page_id",
			PageID: notionapi.PageID(taskID),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: richText(name),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create subtask %q: %w", name, err)
	}
	if page == nil || page.ID == "" {
		return "", ErrMissingTaskID
	}
	return string(page.ID), nil
}

func (c *Client) taskProperties(req models.TaskRequest) notionapi.Properties {
	props := notionapi.Properties{
		c.props.Title: notionapi.TitleProperty{
			Title: richText(req.Name),
		},
	}

	if req.DueOn != nil {
		due := notionapi.Date(*req.DueOn)
		props[c.props.Due] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &due,
			},
		}
	}
	if req.Priority != "" {
		props[c.props.Priority] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: req.Priority},
		}
	}
	if req.Assignee != "" {
		props[c.props.Assignee] = notionapi.PeopleProperty{
			People: []notionapi.User{
				{Object: "user", ID: notionapi.UserID(req.Assignee)},
			},
		}
	}
	for name, option := range req.Fields {
		if name == "" || option == "" {
			continue
		}
		props[name] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: option},
		}
	}
	return props
}

// appendBlocks adds blocks to the page in request-sized batches
func (c *Client) appendBlocks(ctx context.Context, pageID string, blocks []notionapi.Block) error {
	for len(blocks) > 0 {
		var batch []notionapi.Block
		batch, blocks = splitBlocks(blocks)
		_, err := c.client.Block().AppendChildren(ctx, notionapi.BlockID(pageID), &notionapi.AppendBlockChildrenRequest{
			Children: batch,
		})
		if err != nil {
			return fmt.Errorf("failed to append task notes: %w", err)
		}
	}
	return nil
}

func splitBlocks(blocks []notionapi.Block) ([]notionapi.Block, []notionapi.Block) {
	if len(blocks) <= maxChildren {
		return blocks, nil
	}
	return blocks[:maxChildren], blocks[maxChildren:]
}

// convertNotesToBlocks converts plain-text notes to Notion blocks
func (c *Client) convertNotesToBlocks(notes string) []notionapi.Block {
	var blocks []notionapi.Block

	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle bullet points
		if strings.HasPrefix(line, "- ") {
			blocks = append(blocks, c.createBulletedListBlock(line[2:]))
			continue
		}

		// Handle numbered items
		if m := numberedLineRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, c.createNumberedListBlock(m[1]))
			continue
		}

		// Handle regular text
		blocks = append(blocks, c.createParagraphBlock(line))
	}

	return blocks
}

// createBulletedListBlock creates a bulleted list item block
func (c *Client) createBulletedListBlock(text string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeBulletedListItem,
		},
		BulletedListItem: notionapi.ListItem{
			RichText: richText(text),
		},
	}
}

// createNumberedListBlock creates a numbered list item block
func (c *Client) createNumberedListBlock(text string) notionapi.Block {
	return &notionapi.NumberedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeNumberedListItem,
		},
		NumberedListItem: notionapi.ListItem{
			RichText: richText(text),
		},
	}
}

// createParagraphBlock creates a paragraph block
func (c *Client) createParagraphBlock(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{
			RichText: richText(text),
		},
	}
}

// richText splits text into rich text objects within the length limit
func richText(text string) []notionapi.RichText {
	var parts []notionapi.RichText
	for _, chunk := range chunkText(text, maxTextLength) {
		parts = append(parts, notionapi.RichText{
			Text: &notionapi.Text{
				Content: chunk,
			},
		})
	}
	return parts
}

// chunkText cuts s into pieces of at most size runes
func chunkText(s string, size int) []string {
	if s == "" {
		return []string{""}
	}
	var chunks []string
	for utf8.RuneCountInString(s) > size {
		cut := 0
		for i := 0; i < size; i++ {
			_, width := utf8.DecodeRuneInString(s[cut:])
			cut += width
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}
