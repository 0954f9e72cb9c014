package statistic

const redisKeyTopLeaderboard = "leaderboard:top"
