package social

// Queries stick to the SQL both backends accept: @name parameters, AS
// aliases and LIMIT @limit. Unquoted table names fold to lowercase on
// PostgreSQL, which is how pgstore creates them.
const (
	recentPostsSQL = `SELECT p.post_id AS post_id, p.author_id AS author_id, a.name AS author_name,
		p.text AS text, p.sentiment AS sentiment, p.post_timestamp AS post_timestamp
	FROM Post AS p
	JOIN Person AS a ON a.person_id = p.author_id
	ORDER BY p.post_timestamp DESC
	LIMIT @limit`

	recentEventsSQL = `SELECT event_id, name, description, event_date
	FROM Event
	ORDER BY event_date DESC
	LIMIT @limit`

	recentAttendeesSQL = `SELECT a.event_id AS event_id, pe.person_id AS person_id, pe.name AS name
	FROM Attendance AS a
	JOIN Person AS pe ON pe.person_id = a.person_id
	WHERE a.event_id IN (SELECT event_id FROM Event ORDER BY event_date DESC LIMIT @limit)
	ORDER BY pe.name`

	recentLocationsSQL = `SELECT el.event_id AS event_id, l.location_id AS location_id, l.name AS name,
		l.description AS description, l.latitude AS latitude, l.longitude AS longitude, l.address AS address
	FROM EventLocation AS el
	JOIN Location AS l ON l.location_id = el.location_id
	WHERE el.event_id IN (SELECT event_id FROM Event ORDER BY event_date DESC LIMIT @limit)
	ORDER BY l.name`

	personSQL = `SELECT person_id, name, age FROM Person WHERE person_id = @person_id`

	friendsSQL = `SELECT p.person_id AS person_id, p.name AS name
	FROM Friendship AS f
	JOIN Person AS p ON p.person_id = f.person_id_b
	WHERE f.person_id_a = @person_id
	UNION ALL
	SELECT p.person_id AS person_id, p.name AS name
	FROM Friendship AS f
	JOIN Person AS p ON p.person_id = f.person_id_a
	WHERE f.person_id_b = @person_id
	ORDER BY name`

	postsByAuthorSQL = `SELECT p.post_id AS post_id, p.author_id AS author_id, a.name AS author_name,
		p.text AS text, p.sentiment AS sentiment, p.post_timestamp AS post_timestamp
	FROM Post AS p
	JOIN Person AS a ON a.person_id = p.author_id
	WHERE p.author_id = @person_id
	ORDER BY p.post_timestamp DESC`

	attendedEventsSQL = `SELECT e.event_id AS event_id, e.name AS name, e.event_date AS event_date
	FROM Attendance AS a
	JOIN Event AS e ON e.event_id = a.event_id
	WHERE a.person_id = @person_id
	ORDER BY e.event_date DESC`

	topicPagesSQL = `SELECT t.topic_id AS topic_id, t.name AS name, t.description AS description,
		c.page_no AS page_no, c.content_json AS content_json
	FROM Topic AS t
	LEFT JOIN TopicContent AS c ON c.topic_id = t.topic_id
	WHERE t.name = @name
	ORDER BY t.topic_id, c.page_no`
)

var (
	postColumns     = []string{"post_id", "author_id", "author_name", "text", "sentiment", "post_timestamp"}
	eventColumns    = []string{"event_id", "name", "description", "event_date"}
	attendeeColumns = []string{"event_id", "person_id", "name"}
	locationColumns = []string{"event_id", "location_id", "name", "description", "latitude", "longitude", "address"}
	personColumns   = []string{"person_id", "name", "age"}
	friendColumns   = []string{"person_id", "name"}
	eventRefColumns = []string{"event_id", "name", "event_date"}
	topicColumns    = []string{"topic_id", "name", "description", "page_no", "content_json"}
)
