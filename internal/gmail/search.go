package gmail

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// fetchWindowSize is the number of detail fetches run concurrently per
// window. Windows run sequentially so a large page never floods the
// provider all at once.
const fetchWindowSize = 10

// Search runs a Gmail query and returns one page of fully hydrated
// results. It issues a single list call, then fetches message details
// in fixed-size concurrent windows, each fetch gated by the client
// rate limiter. Result order matches the provider's list order. Any
// detail failure aborts the whole page.
func (c *Client) Search(ctx context.Context, query string, maxResults int64, includeBody bool, pageToken string) (*SearchPage, error) {
	call := c.svc.Messages.List("me").Q(query).MaxResults(maxResults).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Do()
	if err != nil {
		return nil, apiErr(fmt.Sprintf("search %q", query), err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		if m.Id != "" {
			ids = append(ids, m.Id)
		}
	}

	emails, err := c.fetchDetails(ctx, ids, includeBody)
	if err != nil {
		return nil, err
	}

	return &SearchPage{
		Emails:        emails,
		TotalEstimate: res.ResultSizeEstimate,
		HasMore:       res.NextPageToken != "",
		NextPageToken: res.NextPageToken,
	}, nil
}

// fetchDetails hydrates the listed message IDs, fetchWindowSize at a
// time. Each result lands at its list index so ordering survives the
// concurrency.
func (c *Client) fetchDetails(ctx context.Context, ids []string, includeBody bool) ([]Message, error) {
	emails := make([]Message, len(ids))
	for start := 0; start < len(ids); start += fetchWindowSize {
		end := start + fetchWindowSize
		if end > len(ids) {
			end = len(ids)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			idx, id := i, ids[i]
			g.Go(func() error {
				if err := c.limiter.Wait(gctx); err != nil {
					return err
				}
				raw, err := c.svc.Messages.Get("me", id).Format("full").Context(gctx).Do()
				if err != nil {
					return apiErr("get message "+id, err)
				}
				emails[idx] = ParseMessage(raw, includeBody)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return emails, nil
}
