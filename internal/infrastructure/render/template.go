package render

const digestTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>The TV Signal — {{.Date}}</title>
<style>
body { font-family: Georgia, serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { border-bottom: 3px solid #b5442d; padding-bottom: .5rem; }
article { margin: 2rem 0; padding-bottom: 1.5rem; border-bottom: 1px solid #ddd; }
.meta { color: #666; font-size: .85rem; }
.badge { display: inline-block; padding: .1rem .5rem; border-radius: 3px; font-size: .8rem; }
.badge.positive { background: #e4f3e4; color: #1d6b1d; }
.badge.negative { background: #f7e1e1; color: #8a1f1f; }
.badge.mixed { background: #f3efdc; color: #6d5b17; }
.badge.neutral { background: #e8e8e8; color: #555; }
.badge.degraded { background: #fbe9d0; color: #8a5a1f; }
blockquote { margin: .8rem 0 .8rem 1rem; padding-left: .8rem; border-left: 3px solid #b5442d; }
footer { margin-top: 2rem; color: #888; font-size: .8rem; }
</style>
</head>
<body>
<h1>The TV Signal</h1>
<p class="meta">{{.Date}} — {{len .Posts}} discussions worth your time</p>
{{range .Posts}}
<article>
<h2><a href="{{.URL}}">{{.Title}}</a></h2>
<p class="meta">
by {{.Author}}{{if .Flair}} · {{.Flair}}{{end}} · {{.Score}} points · {{.CommentCount}} comments
· ~{{.ReadingTime}} min read
· <span class="badge {{.Sentiment.CSS}}">{{.Sentiment.Label}}</span>
{{if .CommentsDegraded}}<span class="badge degraded">comments unavailable</span>{{end}}
</p>
{{if .Snippet}}<p>{{.Snippet}}</p>{{end}}
{{range .Comments}}
<blockquote>
<p>{{.Body}}</p>
<p class="meta">— {{.Author}}{{if .AuthorFlair}} ({{.AuthorFlair}}){{end}}, {{.Score}} points</p>
</blockquote>
{{end}}
</article>
{{else}}
<p>No discussions made the cut today. Quiet day on the couch.</p>
{{end}}
<footer>
run {{.Metrics.RunID}} · fetched {{.Metrics.PostsFetched}} · after dedup {{.Metrics.PostsAfterDedup}}
· after filter {{.Metrics.PostsAfterFilter}} · comments {{.Metrics.CommentsSuccess}}/{{.Metrics.CommentsTotal}}
{{if .Metrics.Degraded}} · degraded{{end}}
</footer>
</body>
</html>
`

const fallbackTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>The TV Signal — unavailable</title></head>
<body style="font-family: Georgia, serif; max-width: 720px; margin: 2rem auto;">
<h1>The TV Signal</h1>
<p>Today's digest could not be produced: %s</p>
<p>The next scheduled run will try again. (%s)</p>
</body>
</html>
`
