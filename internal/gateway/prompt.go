package gateway

import (
	"fmt"
	"strings"
)

var analysisInstructions = []string{
	"Compare the MLB performance of these two players as of the end of the most recent completed season relative to their salaries.",
	"Consider stats like WAR, OPS, ERA, or other metrics relevant to each player's position.",
	"If the players do not play the same position, explain that this may not be a fair comparison.",
	"Explain which player is performing better per dollar of salary, expressed as millions of dollars paid per WAR provided.",
	"Also compare each player to the average of their position, and make a prediction on their future performance.",
	"Format the response as: both player names with relevant stats and contract values, then the WAR per million each player is paid, then a summary of why the stat and pay discrepancies may exist, and finally the future performance prediction.",
	"If one of the players is not a real person, say so and then treat them as a league-average replacement player at the same position as the other player.",
	"Use current public data only, pulled from Baseball-Reference, and be specific in the analysis.",
}

// BuildPrompt returns the prompt sent upstream for a pair of players.
// The output depends only on its arguments.
func BuildPrompt(player1, player2 string) string {
	var b strings.Builder
	b.WriteString(strings.Join(analysisInstructions, " "))
	fmt.Fprintf(&b, "\n\nPlayer 1: %s\nPlayer 2: %s\n\nAnalysis:", player1, player2)
	return b.String()
}
