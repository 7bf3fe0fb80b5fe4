package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// ShortestPath finds the shortest directed path between two nodes using
// bidirectional BFS: a forward frontier following outgoing edges and a
// backward frontier following incoming edges. Returns nil when no path
// exists.
func ShortestPath(g *netgraph.Graph, startID, endID string) []string {
	if !g.HasNode(startID) || !g.HasNode(endID) {
		return nil
	}
	if startID == endID {
		return []string{startID}
	}

	// Forward search from start
	forwardQueue := list.New()
	forwardVisited := make(map[string]string) // node -> parent
	forwardQueue.PushBack(startID)
	forwardVisited[startID] = startID

	// Backward search from end
	backwardQueue := list.New()
	backwardVisited := make(map[string]string) // node -> parent
	backwardQueue.PushBack(endID)
	backwardVisited[endID] = endID

	for forwardQueue.Len() > 0 || backwardQueue.Len() > 0 {
		if forwardQueue.Len() > 0 {
			if meeting, ok := expandFrontier(g, forwardQueue, forwardVisited, backwardVisited, false); ok {
				return reconstructPath(meeting, forwardVisited, backwardVisited)
			}
		}

		if backwardQueue.Len() > 0 {
			if meeting, ok := expandFrontier(g, backwardQueue, backwardVisited, forwardVisited, true); ok {
				return reconstructPath(meeting, forwardVisited, backwardVisited)
			}
		}
	}

	return nil // No path found
}

// expandFrontier expands one BFS level from the queue. The backward
// frontier walks edges in reverse.
func expandFrontier(
	g *netgraph.Graph,
	queue *list.List,
	visited map[string]string,
	otherVisited map[string]string,
	backward bool,
) (string, bool) {
	levelSize := queue.Len()
	for i := 0; i < levelSize; i++ {
		currentID := queue.Remove(queue.Front()).(string)

		for _, neighborID := range neighbors(g, currentID, backward) {
			// Check if we've met the other search
			if _, found := otherVisited[neighborID]; found {
				if _, seen := visited[neighborID]; !seen {
					visited[neighborID] = currentID
				}
				return neighborID, true
			}

			if _, seen := visited[neighborID]; !seen {
				visited[neighborID] = currentID
				queue.PushBack(neighborID)
			}
		}
	}

	return "", false
}

func neighbors(g *netgraph.Graph, id string, backward bool) []string {
	if backward {
		edges := g.InEdges(id)
		ids := make([]string, 0, len(edges))
		for _, edge := range edges {
			ids = append(ids, edge.From)
		}
		return ids
	}
	return g.Successors(id)
}

// reconstructPath builds the full path through the meeting node.
func reconstructPath(
	meetingNode string,
	forwardVisited map[string]string,
	backwardVisited map[string]string,
) []string {
	// Build forward half (start -> meeting)
	forwardPath := make([]string, 0)
	node := meetingNode
	for node != forwardVisited[node] {
		forwardPath = append(forwardPath, node)
		node = forwardVisited[node]
	}
	forwardPath = append(forwardPath, node) // start node

	for i, j := 0, len(forwardPath)-1; i < j; i, j = i+1, j-1 {
		forwardPath[i], forwardPath[j] = forwardPath[j], forwardPath[i]
	}

	// Build backward half (meeting -> end), excluding the meeting node
	path := forwardPath
	node = backwardVisited[meetingNode]
	if node != meetingNode {
		for node != backwardVisited[node] {
			path = append(path, node)
			node = backwardVisited[node]
		}
		path = append(path, node) // end node
	}

	return path
}
