package sportmonks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
)

const providerDateLayout = "2006-01-02"

// FetchFixtures lists fixtures starting between from and to (dates, inclusive).
func (c *Client) FetchFixtures(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	query := map[string]string{
		"filter[starts_between]": from.UTC().Format(providerDateLayout) + "," + to.UTC().Format(providerDateLayout),
		"include":                "localteam,visitorteam",
	}
	if c.leagueID > 0 {
		query["filter[league_id]"] = strconv.FormatInt(c.leagueID, 10)
	}

	var env fixturesEnvelope
	if _, err := c.doJSON(ctx, "/fixtures", query, &env); err != nil {
		return nil, crerr.Wrap(err, "fetch fixtures")
	}

	out := make([]fixture.Fixture, 0, len(env.Data))
	for _, item := range env.Data {
		out = append(out, mapFixture(item))
	}
	return out, nil
}

// FetchFixture looks one fixture up by id regardless of its start date.
func (c *Client) FetchFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, error) {
	var env fixtureEnvelope
	_, err := c.doJSON(ctx, fixturePath(fixtureID), map[string]string{"include": "localteam,visitorteam"}, &env)
	if crerr.Is(err, errSportMonksNotFound) {
		return fixture.Fixture{}, crerr.Wrapf(fixture.ErrNotFound, "fetch fixture=%d", fixtureID)
	}
	if err != nil {
		return fixture.Fixture{}, crerr.Wrapf(err, "fetch fixture=%d", fixtureID)
	}
	if env.Data.ID == 0 {
		return fixture.Fixture{}, crerr.Wrapf(fixture.ErrNotFound, "fetch fixture=%d: empty payload", fixtureID)
	}
	return mapFixture(env.Data), nil
}

// FetchBatting returns raw batting lines for one fixture.
func (c *Client) FetchBatting(ctx context.Context, fixtureID int64) ([]stats.Entry, error) {
	var env fixtureEnvelope
	if _, err := c.doJSON(ctx, fixturePath(fixtureID), map[string]string{"include": "batting.batsman"}, &env); err != nil {
		return nil, crerr.Wrapf(err, "fetch batting fixture=%d", fixtureID)
	}

	out := make([]stats.Entry, 0, len(env.Data.Batting.Data))
	for _, b := range env.Data.Batting.Data {
		out = append(out, stats.Entry{PlayerID: int64(b.PlayerID), Runs: int(b.Score)})
	}
	return out, nil
}

// FetchBowling returns raw bowling lines for one fixture.
func (c *Client) FetchBowling(ctx context.Context, fixtureID int64) ([]stats.Entry, error) {
	var env fixtureEnvelope
	if _, err := c.doJSON(ctx, fixturePath(fixtureID), map[string]string{"include": "bowling.bowler"}, &env); err != nil {
		return nil, crerr.Wrapf(err, "fetch bowling fixture=%d", fixtureID)
	}

	out := make([]stats.Entry, 0, len(env.Data.Bowling.Data))
	for _, b := range env.Data.Bowling.Data {
		out = append(out, stats.Entry{PlayerID: int64(b.PlayerID), Wickets: int(b.Wickets)})
	}
	return out, nil
}

// FetchSquad returns a team's roster for a season.
func (c *Client) FetchSquad(ctx context.Context, teamID, seasonID int64) (squad.Squad, error) {
	var env teamEnvelope
	path := fmt.Sprintf("/teams/%d/squad/%d", teamID, seasonID)
	if _, err := c.doJSON(ctx, path, nil, &env); err != nil {
		return squad.Squad{}, crerr.Wrapf(err, "fetch squad team=%d season=%d", teamID, seasonID)
	}

	players := make([]squad.Player, 0, len(env.Data.Squad.Data))
	for _, p := range env.Data.Squad.Data {
		name := p.FullName
		if name == "" {
			name = joinName(p.FirstName, p.LastName)
		}
		players = append(players, squad.Player{
			ID:        p.ID,
			FullName:  name,
			Position:  p.Position.Data.Name,
			ImagePath: p.ImagePath,
		})
	}

	return squad.Squad{
		TeamID:   teamID,
		SeasonID: seasonID,
		TeamName: env.Data.Name,
		Players:  players,
	}, nil
}

func fixturePath(fixtureID int64) string {
	return "/fixtures/" + strconv.FormatInt(fixtureID, 10)
}

func mapFixture(item fixtureItem) fixture.Fixture {
	out := fixture.Fixture{
		ID:       item.ID,
		LeagueID: item.LeagueID,
		SeasonID: item.SeasonID,
		Round:    item.Round,
		Status:   item.Status,
		Live:     item.Live,
		Note:     item.Note,
		LocalTeam: fixture.TeamRef{
			ID:        pickID(item.LocalTeamID, item.LocalTeam.Data.ID),
			Name:      item.LocalTeam.Data.Name,
			Code:      item.LocalTeam.Data.Code,
			ImagePath: item.LocalTeam.Data.ImagePath,
		},
		VisitorTeam: fixture.TeamRef{
			ID:        pickID(item.VisitorTeamID, item.VisitorTeam.Data.ID),
			Name:      item.VisitorTeam.Data.Name,
			Code:      item.VisitorTeam.Data.Code,
			ImagePath: item.VisitorTeam.Data.ImagePath,
		},
	}
	if start := parseProviderDateTime(item.StartingAt); start != nil {
		out.StartingAt = *start
	}
	return out
}

func pickID(current, candidate int64) int64 {
	if current > 0 {
		return current
	}
	return candidate
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
