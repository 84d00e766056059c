package ratelimit

import "github.com/redis/go-redis/v9"

// Both gates run as single Lua scripts so purge, sum, compare and the
// conditional write are one atomic operation across concurrent callers.
// The caller passes its own clock as ARGV[1] (fractional unix seconds);
// scripts return "0" for pass or the retry delay as a string so fractional
// delays survive the Redis reply conversion.

// visitorScript enforces the rolling per-visitor message window.
// KEYS[1] = visitor zset, ARGV = now, window seconds, message limit.
var visitorScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", now - window)

local count = redis.call("ZCARD", KEYS[1])
if count >= limit then
  -- Seconds until the oldest counted message ages out of the window
  local oldest = redis.call("ZRANGE", KEYS[1], 0, 0, "WITHSCORES")
  return tostring(tonumber(oldest[2]) + window - now)
end

local seq = redis.call("INCR", KEYS[1] .. ":seq")
redis.call("EXPIRE", KEYS[1] .. ":seq", math.ceil(window * 2))
redis.call("ZADD", KEYS[1], now, ARGV[1] .. ":" .. tostring(seq))
return "0"
`)

// globalScript maintains the sliding token ledger and computes the
// randomized exponential backoff when the ledger is over budget.
// KEYS[1] = ledger zset, ARGV = now, update flag, token count, token limit,
// window seconds, max delay seconds.
var globalScript = redis.NewScript(`
local now = tonumber(ARGV[1])

-- If update is true, deposit the new tokens with the timestamp in the member
-- so equal counts never collide
if ARGV[2] == "true" and tonumber(ARGV[3]) > 0 then
  local member = ARGV[3] .. ":" .. ARGV[1]
  redis.call("ZADD", KEYS[1], now, member)
end

redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", now - tonumber(ARGV[5]))

local total = 0
for _, entry in ipairs(redis.call("ZRANGE", KEYS[1], 0, -1)) do
  total = total + tonumber(string.match(entry, "^(%d+):"))
end

local limit = tonumber(ARGV[4])
if total <= limit then
  return "0"
end

-- Exponential backoff with jitter, seeded by how far over budget we are
local over = total - limit
local delay = math.random() * math.pow(2, math.ceil(over / limit))
delay = math.min(delay, tonumber(ARGV[6]))
return tostring(delay)
`)
