package notion

import "github.com/jomei/notionapi"

// NewWithClient builds a Client over an injected NotionClient
func NewWithClient(client NotionClient, databaseID string, props Properties) *Client {
	return &Client{
		client:     client,
		databaseID: notionapi.DatabaseID(databaseID),
		props:      props.withDefaults(),
	}
}

var ChunkText = chunkText
