package digest

import (
	"fmt"
	"strings"

	"github.com/ppiankov/grazer/internal/platform"
)

const moltbookWeb = "https://moltbook.com"

// Entry is a platform record reduced to what every renderer shows.
type Entry struct {
	Platform platform.Name `json:"platform"`
	ID       string        `json:"id,omitempty"`
	Title    string        `json:"title"`
	Author   string        `json:"author,omitempty"`
	URL      string        `json:"url,omitempty"`
	Meta     string        `json:"meta,omitempty"`

	// Text is the searchable body used for trending detection.
	Text string `json:"-"`
}

// EntryFor normalizes any discovery record.
func EntryFor(item platform.Item) Entry {
	switch v := item.(type) {
	case platform.BottubeVideo:
		return Entry{
			Platform: platform.BoTTube,
			ID:       v.ID.String(),
			Title:    v.Title,
			Author:   v.Agent,
			URL:      v.StreamURL,
			Meta:     join(fmt.Sprintf("%d views", v.Views), v.Category),
			Text:     v.Title,
		}
	case platform.MoltbookPost:
		url := v.URL
		if strings.HasPrefix(url, "/") {
			url = moltbookWeb + url
		}
		meta := fmt.Sprintf("%d upvotes", v.Upvotes)
		if v.Submolt != "" {
			meta = join("m/"+v.Submolt, meta)
		}
		return Entry{
			Platform: platform.Moltbook,
			ID:       v.ID.String(),
			Title:    v.Title,
			Author:   v.Author,
			URL:      url,
			Meta:     meta,
			Text:     join(v.Title, v.Content),
		}
	case platform.ClawCitiesSite:
		title := v.DisplayName
		if title == "" {
			title = v.Name
		}
		return Entry{
			Platform: platform.ClawCities,
			ID:       v.Name,
			Title:    title,
			URL:      v.URL,
			Text:     join(title, v.Description),
		}
	case platform.ClawstaPost:
		return Entry{
			Platform: platform.Clawsta,
			ID:       v.ID.String(),
			Title:    truncate(v.Content, 60),
			Author:   v.Author,
			Meta:     fmt.Sprintf("%d likes", v.Likes),
			Text:     v.Content,
		}
	case platform.FourclawThread:
		title := v.Title
		if title == "" {
			title = "(untitled)"
		}
		author := v.AgentName
		if author == "" {
			author = "anon"
		}
		return Entry{
			Platform: platform.Fourclaw,
			ID:       v.ID.String(),
			Title:    title,
			Author:   author,
			Meta:     join(fmt.Sprintf("%d replies", v.ReplyCount), "id:"+shortID(v.ID.String())),
			Text:     join(v.Title, v.Content),
		}
	case platform.YouTubeVideo:
		return Entry{
			Platform: platform.YouTube,
			ID:       v.ID,
			Title:    v.Title,
			Author:   v.ChannelTitle,
			URL:      v.URL,
			Text:     join(v.Title, v.Description),
		}
	case platform.ColonyPost:
		meta := fmt.Sprintf("%d comments", v.CommentCount)
		if v.PostType != "" {
			meta = join(v.PostType, meta)
		}
		return Entry{
			Platform: platform.Colony,
			ID:       v.ID.String(),
			Title:    v.Title,
			Author:   v.Author.String(),
			Meta:     meta,
			Text:     join(v.Title, v.Body),
		}
	case platform.MoltXPost:
		return Entry{
			Platform: platform.MoltX,
			ID:       v.ID.String(),
			Title:    truncate(v.Content, 80),
			Author:   v.AuthorDisplayName,
			Meta:     join(fmt.Sprintf("%d likes", v.LikeCount), fmt.Sprintf("%d replies", v.ReplyCount)),
			Text:     v.Content,
		}
	case platform.MoltExchangeQuestion:
		return Entry{
			Platform: platform.MoltExchange,
			ID:       v.ID.String(),
			Title:    v.Title,
			Author:   v.Author,
			Meta:     fmt.Sprintf("%d answers", v.AnswerCount),
			Text:     join(v.Title, v.Body),
		}
	case platform.PinchedInPost:
		return Entry{
			Platform: platform.PinchedIn,
			ID:       v.ID.String(),
			Title:    truncate(v.Content, 80),
			Author:   v.Author.Name,
			Meta:     join(fmt.Sprintf("%d likes", v.LikesCount), fmt.Sprintf("%d comments", v.CommentsCount)),
			Text:     v.Content,
		}
	case platform.PinchedInJob:
		return Entry{
			Platform: platform.PinchedIn,
			ID:       v.ID.String(),
			Title:    v.Title,
			Author:   v.Poster.Name,
			Meta:     join("status: "+v.Status, v.Compensation),
			Text:     join(v.Title, v.Description),
		}
	case platform.ClawTask:
		meta := "status: " + v.Status
		if len(v.Tags) > 0 {
			meta = join(meta, "tags: "+strings.Join(v.Tags, ", "))
		}
		if v.DeadlineHours > 0 {
			meta = join(meta, fmt.Sprintf("deadline: %dh", v.DeadlineHours))
		}
		return Entry{
			Platform: platform.ClawTasks,
			ID:       v.ID.String(),
			Title:    v.Title,
			Meta:     meta,
			Text:     join(v.Title, v.Description),
		}
	case platform.ClawNewsStory:
		return Entry{
			Platform: platform.ClawNews,
			ID:       v.ID.String(),
			Title:    v.Heading(),
			Author:   v.Author,
			URL:      v.URL,
			Text:     join(v.Heading(), v.Summary),
		}
	case platform.AgentChanThread:
		title := v.Subject
		if title == "" {
			title = "(untitled)"
		}
		author := v.AuthorName
		if author == "" {
			author = "anon"
		}
		meta := fmt.Sprintf("%d replies", v.ReplyCount)
		if v.Board != "" {
			meta = join("/"+v.Board+"/", meta)
		}
		return Entry{
			Platform: platform.AgentChan,
			ID:       v.ID.String(),
			Title:    title,
			Author:   author,
			Meta:     meta,
			Text:     join(v.Subject, v.Content),
		}
	case platform.DirectoryService:
		return Entry{
			Platform: platform.Directory,
			ID:       v.Slug,
			Title:    v.Name,
			URL:      v.URL,
			Meta:     v.Category,
			Text:     join(v.Name, v.Description),
		}
	case platform.SwarmHubAgent:
		meta := "agent"
		if len(v.Capabilities) > 0 {
			meta = join(meta, strings.Join(v.Capabilities, ", "))
		}
		return Entry{
			Platform: platform.SwarmHub,
			ID:       v.ID.String(),
			Title:    v.Name,
			Meta:     meta,
			Text:     join(v.Name, v.Description),
		}
	case platform.SwarmHubSwarm:
		return Entry{
			Platform: platform.SwarmHub,
			ID:       v.ID.String(),
			Title:    v.Name,
			Meta:     join("swarm", fmt.Sprintf("%d members", v.MemberCount)),
			Text:     join(v.Name, v.Description),
		}
	case platform.FeedItem:
		return Entry{
			Platform: platform.Feeds,
			ID:       v.ID,
			Title:    v.Title,
			Author:   v.Author,
			URL:      v.URL,
			Meta:     v.Feed,
			Text:     join(v.Title, v.Summary),
		}
	}
	return Entry{Platform: item.Platform()}
}

func join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
